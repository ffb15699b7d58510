package middleware

import "testing"

func TestIsLocalIP(t *testing.T) {
	local := []string{"localhost", "127.0.0.1", "127.8.8.8", "::1", "192.168.1.20", "10.0.0.3", "172.16.0.1", "172.31.255.255"}
	for _, ip := range local {
		if !isLocalIP(ip) {
			t.Errorf("isLocalIP(%q) = false", ip)
		}
	}

	public := []string{"8.8.8.8", "172.32.0.1", "203.0.113.9", "not-an-ip", ""}
	for _, ip := range public {
		if isLocalIP(ip) {
			t.Errorf("isLocalIP(%q) = true", ip)
		}
	}
}

func TestIPChecker_AllowList(t *testing.T) {
	checker, err := newIPChecker(&IPWhitelistConfig{
		AllowIPs: []string{"203.0.113.9", "198.51.100.0/24"},
	})
	if err != nil {
		t.Fatalf("newIPChecker: %v", err)
	}

	if !checker.isAllowed("203.0.113.9") {
		t.Error("exact allow entry rejected")
	}
	if !checker.isAllowed("198.51.100.42") {
		t.Error("CIDR allow entry rejected")
	}
	if checker.isAllowed("203.0.113.10") {
		t.Error("unlisted IP accepted")
	}
}

func TestIPChecker_DenyBeatsAllow(t *testing.T) {
	checker, err := newIPChecker(&IPWhitelistConfig{
		AllowIPs: []string{"198.51.100.0/24"},
		DenyIPs:  []string{"198.51.100.7"},
	})
	if err != nil {
		t.Fatalf("newIPChecker: %v", err)
	}

	if checker.isAllowed("198.51.100.7") {
		t.Error("denied IP accepted despite allow CIDR")
	}
	if !checker.isAllowed("198.51.100.8") {
		t.Error("neighbouring IP rejected")
	}
}

func TestIPChecker_EmptyListsAllowLocal(t *testing.T) {
	checker, err := newIPChecker(&IPWhitelistConfig{})
	if err != nil {
		t.Fatalf("newIPChecker: %v", err)
	}

	if !checker.isAllowed("127.0.0.1") {
		t.Error("local IP rejected with empty config")
	}
	if checker.isAllowed("203.0.113.9") {
		t.Error("public IP accepted with empty config")
	}
}

func TestIPLimiter(t *testing.T) {
	limiter := NewIPLimiter(3, 60)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("203.0.113.9") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if limiter.Allow("203.0.113.9") {
		t.Fatal("request over the limit allowed")
	}

	// other IPs keep their own window
	if !limiter.Allow("203.0.113.10") {
		t.Fatal("separate IP throttled")
	}
}
