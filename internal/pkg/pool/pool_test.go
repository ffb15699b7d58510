package pool

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"
)

type threadEntry struct {
	Tid      int64  `json:"tid"`
	Title    string `json:"title"`
	Replies  int    `json:"replies"`
	Dateline int64  `json:"dateline"`
}

func TestSimpleCache_Basics(t *testing.T) {
	c := NewCache[int64, *threadEntry](8)

	if _, ok := c.Get(1); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Set(1, &threadEntry{Tid: 1, Title: "Monaco GP thread"})
	v, ok := c.Get(1)
	if !ok || v.Title != "Monaco GP thread" {
		t.Fatalf("get after set: ok=%v v=%+v", ok, v)
	}

	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("hit after remove")
	}
}

func TestSimpleCache_CapBound(t *testing.T) {
	c := NewCache[int, int](4)
	for i := 0; i < 100; i++ {
		c.Set(i, i)
	}
	if c.Len() > 4 {
		t.Fatalf("cache grew past cap: %d", c.Len())
	}
}

func TestBigCache_RoundTrip(t *testing.T) {
	c, err := NewBigCache(8, time.Minute)
	if err != nil {
		t.Fatalf("NewBigCache: %v", err)
	}
	defer c.Close()

	in := &threadEntry{Tid: 42, Title: "Silverstone", Replies: 7, Dateline: time.Now().Unix()}
	data, _ := json.Marshal(in)
	if err := c.Set("thread:42", data); err != nil {
		t.Fatalf("Set: %v", err)
	}

	raw, ok := c.Get("thread:42")
	if !ok {
		t.Fatal("miss after set")
	}
	var out threadEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Tid != in.Tid || out.Title != in.Title {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	if err := c.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, ok := c.Get("thread:42"); ok {
		t.Fatal("hit after flush")
	}
}

func BenchmarkSimpleCache_Get(b *testing.B) {
	c := NewCache[string, *threadEntry](10000)
	for i := 0; i < 10000; i++ {
		c.Set("thread:"+strconv.Itoa(i), &threadEntry{Tid: int64(i)})
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		c.Get("thread:" + strconv.Itoa(i%10000))
	}
}

func BenchmarkBigCache_Get(b *testing.B) {
	c, err := NewBigCache(64, 10*time.Minute)
	if err != nil {
		b.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	for i := 0; i < 10000; i++ {
		data, _ := json.Marshal(&threadEntry{Tid: int64(i), Title: "Hot Thread", Replies: i})
		c.Set("thread:"+strconv.Itoa(i), data)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		c.Get("thread:" + strconv.Itoa(i%10000))
	}
}
