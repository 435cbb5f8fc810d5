// internal/config/validator_test.go

package config

import "testing"

// baseConfig returns a minimal valid configuration with both outbound
// channels disabled.
func baseConfig() Config {
	return Config{
		HTTP:     HTTP{ListenAddr: ":8080"},
		Database: Database{DSN: "trix:%s@tcp(127.0.0.1:3306)/trix", Password: "pw"},
		Admin: Admin{
			AllowList:  []string{"admin@trixgeo.com"},
			SessionKey: "k",
		},
	}
}

func TestEmptyMirrorAndMailSectionsAreValid(t *testing.T) {
	cfg := baseConfig()
	if err := validateStruct(&cfg); err != nil {
		t.Fatalf("config with disabled mirror and mail channels rejected: %v", err)
	}
}

func TestFullyConfiguredChannelsAreValid(t *testing.T) {
	cfg := baseConfig()
	cfg.Mirror = Mirror{BaseURL: "https://hooks.trixgeo.com", APIKey: "key"}
	cfg.Mail = Mail{ResendKey: "re_key", From: "TRIX <onboarding@resend.dev>"}
	if err := validateStruct(&cfg); err != nil {
		t.Fatalf("fully configured channels rejected: %v", err)
	}
}

func TestMirrorBaseWithoutKeyIsRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.Mirror = Mirror{BaseURL: "https://hooks.trixgeo.com"}
	if err := validateStruct(&cfg); err == nil {
		t.Fatal("mirror base URL without an API key passed validation")
	}
}

func TestResendKeyWithoutFromIsRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.Mail = Mail{ResendKey: "re_key"}
	if err := validateStruct(&cfg); err == nil {
		t.Fatal("resend key without a from address passed validation")
	}
}

func TestBadMirrorURLIsRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.Mirror = Mirror{BaseURL: "not a url", APIKey: "key"}
	if err := validateStruct(&cfg); err == nil {
		t.Fatal("malformed mirror base URL passed validation")
	}
}

func TestMissingListenAddrIsRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.HTTP.ListenAddr = ""
	if err := validateStruct(&cfg); err == nil {
		t.Fatal("missing listen address passed validation")
	}
}
