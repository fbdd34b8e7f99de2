// Package ids generates the telemetry identity values the editor reads at
// startup.
package ids

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Keys the editor reads by exact name.
const (
	KeyDevDeviceID      = "telemetry.devDeviceId"
	KeyMacMachineID     = "telemetry.macMachineId"
	KeyMachineID        = "telemetry.machineId"
	KeySQMID            = "telemetry.sqmId"
	KeyServiceMachineID = "storage.serviceMachineId"
)

// Keys lists every identifier key in write order.
var Keys = []string{
	KeyDevDeviceID,
	KeyMacMachineID,
	KeyMachineID,
	KeySQMID,
	KeyServiceMachineID,
}

// Set is one freshly generated identity.
type Set struct {
	DevDeviceID  string
	MacMachineID string
	MachineID    string
	SQMID        string
}

// ServiceMachineID mirrors DevDeviceID.
func (s Set) ServiceMachineID() string {
	return s.DevDeviceID
}

// Map returns the set keyed by the names the editor uses.
func (s Set) Map() map[string]string {
	return map[string]string{
		KeyDevDeviceID:      s.DevDeviceID,
		KeyMacMachineID:     s.MacMachineID,
		KeyMachineID:        s.MachineID,
		KeySQMID:            s.SQMID,
		KeyServiceMachineID: s.ServiceMachineID(),
	}
}

// Generator draws identifiers from an entropy source.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading from r. A nil r means crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate returns a new Set using crypto/rand.
func Generate() (Set, error) {
	return NewGenerator(nil).Generate()
}

// Generate returns a new Set.
func (g *Generator) Generate() (Set, error) {
	dev, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return Set{}, fmt.Errorf("dev device id: %w", err)
	}

	machine, err := g.digest(32, func(b []byte) []byte {
		sum := sha256.Sum256(b)
		return sum[:]
	})
	if err != nil {
		return Set{}, fmt.Errorf("machine id: %w", err)
	}

	mac, err := g.digest(64, func(b []byte) []byte {
		sum := sha512.Sum512(b)
		return sum[:]
	})
	if err != nil {
		return Set{}, fmt.Errorf("mac machine id: %w", err)
	}

	sqm, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return Set{}, fmt.Errorf("sqm id: %w", err)
	}

	return Set{
		DevDeviceID:  dev.String(),
		MacMachineID: mac,
		MachineID:    machine,
		SQMID:        "{" + strings.ToUpper(sqm.String()) + "}",
	}, nil
}

// digest hashes n random bytes and returns the lower-case hex digest.
func (g *Generator) digest(n int, sum func([]byte) []byte) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(g.rand, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum(b)), nil
}

var (
	uuidPattern   = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	bracedPattern = regexp.MustCompile(`^\{[0-9A-F]{8}-[0-9A-F]{4}-4[0-9A-F]{3}-[89AB][0-9A-F]{3}-[0-9A-F]{12}\}$`)
	hex64Pattern  = regexp.MustCompile(`^[0-9a-f]{64}$`)
	hex128Pattern = regexp.MustCompile(`^[0-9a-f]{128}$`)
)

// Validate checks every value against the format the editor expects.
func (s Set) Validate() error {
	if !uuidPattern.MatchString(s.DevDeviceID) {
		return fmt.Errorf("%s: not a v4 uuid: %q", KeyDevDeviceID, s.DevDeviceID)
	}
	if !hex64Pattern.MatchString(s.MachineID) {
		return fmt.Errorf("%s: want 64 hex chars, got %d", KeyMachineID, len(s.MachineID))
	}
	if !hex128Pattern.MatchString(s.MacMachineID) {
		return fmt.Errorf("%s: want 128 hex chars, got %d", KeyMacMachineID, len(s.MacMachineID))
	}
	if !bracedPattern.MatchString(s.SQMID) {
		return fmt.Errorf("%s: not a braced upper-case uuid: %q", KeySQMID, s.SQMID)
	}
	return nil
}
