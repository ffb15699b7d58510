package service

import (
	"encoding/binary"
	"errors"
)

// MarshalBinary serialize ThreadDTO for the redis tier. Permission
// flags and the author are per-request state and are not encoded.
func (dto *ThreadDTO) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0)

	// tid (8 bytes)
	tidBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(tidBuf, uint64(dto.Tid))
	buf = append(buf, tidBuf...)

	// uid (8 bytes)
	uidBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(uidBuf, uint64(dto.Uid))
	buf = append(buf, uidBuf...)

	// pinned flag (1 byte)
	if dto.IsPinned {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	// replies (4 bytes)
	repliesBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(repliesBuf, uint32(dto.Replies))
	buf = append(buf, repliesBuf...)

	// created_at (8 bytes)
	createdBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(createdBuf, uint64(dto.CreatedAt))
	buf = append(buf, createdBuf...)

	// updated_at (8 bytes)
	updatedBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(updatedBuf, uint64(dto.UpdatedAt))
	buf = append(buf, updatedBuf...)

	// title length (2 bytes) + title
	titleLen := len(dto.Title)
	titleLenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(titleLenBuf, uint16(titleLen))
	buf = append(buf, titleLenBuf...)
	buf = append(buf, []byte(dto.Title)...)

	// body length (2 bytes) + body
	bodyLen := len(dto.Body)
	bodyLenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(bodyLenBuf, uint16(bodyLen))
	buf = append(buf, bodyLenBuf...)
	buf = append(buf, []byte(dto.Body)...)

	return buf, nil
}

// UnmarshalBinary deserialize ThreadDTO
func (dto *ThreadDTO) UnmarshalBinary(data []byte) error {
	if len(data) < 39 {
		return errors.New("thread payload too short")
	}
	offset := 0

	// tid
	dto.Tid = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8

	// uid
	dto.Uid = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8

	// pinned flag
	dto.IsPinned = data[offset] == 1
	offset += 1

	// replies
	dto.Replies = int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	// created_at
	dto.CreatedAt = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8

	// updated_at
	dto.UpdatedAt = int64(binary.BigEndian.Uint64(data[offset : offset+8]))
	offset += 8

	// title length
	titleLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+titleLen > len(data) {
		return errors.New("thread payload truncated")
	}

	// title
	dto.Title = string(data[offset : offset+titleLen])
	offset += titleLen

	// body length
	if offset+2 > len(data) {
		return errors.New("thread payload truncated")
	}
	bodyLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+bodyLen > len(data) {
		return errors.New("thread payload truncated")
	}

	// body
	if bodyLen > 0 {
		dto.Body = string(data[offset : offset+bodyLen])
	}

	return nil
}
