package match

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash"
)

// ID identifies a match. It is 12 bytes: a timestamp, a machine hash, the
// process id and a counter, so IDs made on different hosts do not collide
// and sort roughly by creation time.
type ID string

func (id ID) String() string {
	return hex.EncodeToString([]byte(id))
}

// Time returns the creation time stored in the id.
func (id ID) Time() time.Time {
	secs := int64(binary.BigEndian.Uint32(id.byteSlice(0, 4)))
	return time.Unix(secs, 0)
}

func (id ID) byteSlice(start, end int) []byte {
	if len(id) != 12 {
		panic(fmt.Sprintf("invalid match id: %q", string(id)))
	}
	return []byte(string(id)[start:end])
}

// ParseID parses the hex form returned by String.
func ParseID(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 12 {
		return "", fmt.Errorf("invalid match id %q", s)
	}
	return ID(b), nil
}

var idCounter atomic.Uint32

var machineID = func() [3]byte {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64String(hostname))
	return [3]byte{sum[0], sum[1], sum[2]}
}()

// NewID returns a new unique match id.
func NewID() ID {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b, uint32(time.Now().Unix()))
	copy(b[4:7], machineID[:])
	pid := os.Getpid()
	b[7] = byte(pid >> 8)
	b[8] = byte(pid)
	i := idCounter.Add(1)
	b[9] = byte(i >> 16)
	b[10] = byte(i >> 8)
	b[11] = byte(i)
	return ID(b)
}
