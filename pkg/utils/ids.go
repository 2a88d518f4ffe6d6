package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

var documentIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewDocumentID returns a 24 character hex id: 4 bytes of unix seconds
// followed by 8 random bytes, so ids sort roughly by creation time.
func NewDocumentID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

func IsDocumentID(s string) bool {
	return documentIDPattern.MatchString(s)
}
