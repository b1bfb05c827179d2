package ssmtp

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/richwalm/ssmtp/internal/log"
)

// Default configuration values, applied by DefaultConfig and by any zero
// field a caller leaves unset when passing a Config to NewSession.
const (
	DefaultPort           = "25"
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 15 * time.Second
	DefaultBoundaryDigits = 5
)

// Config holds the tunables a Session is built from, in the spirit of
// go-guerrilla's AppConfig/ServerConfig pair: a plain struct a caller can
// build by hand (the zero value degrades to sane defaults field-by-field
// inside NewSession), plus a DefaultConfig constructor for the common case.
type Config struct {
	// HeloName is the hostname this client claims in the HELO command.
	HeloName string

	// Port is the TCP port CONNECT-AND-GREET dials, applied to every MX
	// and A-record candidate. Defaults to "25".
	Port string

	// ConnectTimeout bounds each candidate's dial. Defaults to 15s.
	ConnectTimeout time.Duration
	// ReadTimeout bounds every reply read. Defaults to 15s.
	ReadTimeout time.Duration

	// BoundaryDigits is the number of decimal digits appended to
	// "Boundary" when generating a MIME boundary. Defaults to 5.
	BoundaryDigits int
	// Rand supplies the randomness boundary generation draws from. The
	// C original seeds a process-wide PRNG from wall-clock time; this
	// port instead takes an injectable io.Reader so tests can pin the
	// boundary deterministically. Defaults to crypto/rand.Reader.
	Rand io.Reader

	// Logger receives one Debug line, tagged with the host, for each
	// MX/A-record candidate that fails to connect; individual SMTP commands
	// and replies are not logged. Defaults to a logger writing to stderr at
	// info level.
	Logger log.Logger
	// Resolver is the DNS seam MX discovery uses. Defaults to a
	// *net.Resolver-backed implementation.
	Resolver Resolver
	// EventBus, if non-nil, receives lifecycle notifications (see
	// event.go). Defaults to nil: a Session with no EventBus simply
	// never publishes.
	EventBus *EventHandler
}

// DefaultConfig returns a Config with every field set to its documented
// default, ready to pass to NewSession after setting at least HeloName.
func DefaultConfig() Config {
	logger, err := log.New("stderr")
	if err != nil {
		// "stderr" never fails to open; New only returns an error for a
		// file destination it couldn't create or append to.
		panic("ssmtp: default stderr logger: " + err.Error())
	}
	return Config{
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		BoundaryDigits: DefaultBoundaryDigits,
		Rand:           rand.Reader,
		Logger:         logger,
		Resolver:       netResolver{},
		EventBus:       nil,
	}
}

// withDefaults returns a copy of c with every zero field replaced by its
// documented default. NewSession calls this so a caller-built Config
// (including the Config zero value) never needs to repeat DefaultConfig's
// boilerplate.
func (c Config) withDefaults() (Config, error) {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.BoundaryDigits == 0 {
		c.BoundaryDigits = DefaultBoundaryDigits
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Resolver == nil {
		c.Resolver = netResolver{}
	}
	if c.Logger == nil {
		logger, err := log.New("stderr")
		if err != nil {
			return c, err
		}
		c.Logger = logger
	}
	return c, nil
}
