package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/alex65536/league/internal/database"
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/webui"
)

type HTTPSOptions struct {
	Port                 int      `toml:"port"`
	CachePath            string   `toml:"cache-path"`
	AllowedSecureDomains []string `toml:"allowed-secure-domains"`
	ExposeInsecure       bool     `toml:"expose-insecure"`
}

type Options struct {
	Host   string                  `toml:"host"`
	Port   int                     `toml:"port"`
	HTTPS  *HTTPSOptions           `toml:"https"`
	Prefix string                  `toml:"prefix"`
	JSON   bool                    `toml:"json-logs"`
	Debug  bool                    `toml:"debug-logs"`
	DB     database.Options        `toml:"db"`
	Users  userauth.ManagerOptions `toml:"users"`
	League league.Options          `toml:"league"`
	WebUI  webui.Options           `toml:"webui"`
}

func (o *Options) FillDefaults() {
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.Port == 0 {
		o.Port = 8080
	}
	if o.HTTPS != nil && o.HTTPS.Port == 0 {
		o.HTTPS.Port = 8443
	}
	if o.DB.Path == "" {
		o.DB.Path = "league.db"
	}
	if o.Users.LinkPrefix == "" {
		o.Users.LinkPrefix = "http://" + o.AddrWithPort() + o.Prefix + "/invite/"
	}
	o.DB.FillDefaults()
	o.Users.FillDefaults()
	o.League.FillDefaults()
	o.WebUI.FillDefaults()
}

func (o *Options) AddrWithPort() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

func (o *Options) SecureAddrWithPort() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.HTTPS.Port))
}

func (o *Options) MixSecrets(s *Secrets) error {
	sessionKey, err := hex.DecodeString(s.SessionKey)
	if err != nil {
		return fmt.Errorf("decode session key: %w", err)
	}
	csrfKey, err := hex.DecodeString(s.CSRFKey)
	if err != nil {
		return fmt.Errorf("decode csrf key: %w", err)
	}
	o.WebUI.Session.Key = sessionKey
	o.WebUI.CSRFKey = csrfKey
	return nil
}

func readOptions(path string) (Options, error) {
	rawOpts, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}
	var opts Options
	if err := toml.Unmarshal(rawOpts, &opts); err != nil {
		return Options{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return opts, nil
}

type Secrets struct {
	SessionKey string `toml:"session-key"`
	CSRFKey    string `toml:"csrf-key"`
}

func genKey() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("crypto rand: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// GenerateMissing fills the empty secrets with random values. Returns true if any secret was
// generated.
func (s *Secrets) GenerateMissing() (bool, error) {
	changed := false
	for _, key := range []*string{&s.SessionKey, &s.CSRFKey} {
		if *key != "" {
			continue
		}
		val, err := genKey()
		if err != nil {
			return false, err
		}
		*key = val
		changed = true
	}
	return changed, nil
}
