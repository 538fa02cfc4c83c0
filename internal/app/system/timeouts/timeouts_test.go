package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing {
		t.Errorf("Ping() = %v, want %v", Ping(), DefaultPing)
	}
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want %v", Short(), DefaultShort)
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want %v", Medium(), DefaultMedium)
	}
	if Long() != DefaultLong {
		t.Errorf("Long() = %v, want %v", Long(), DefaultLong)
	}
}

func TestConfigure(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	// Zero values keep defaults
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("TIMEOUT_SHORT", "3s")
	t.Setenv("TIMEOUT_LONG", "bogus")

	n := ConfigureFromEnv()
	if n != 1 {
		t.Errorf("ConfigureFromEnv() = %d, want 1", n)
	}
	if Short() != 3*time.Second {
		t.Errorf("Short() = %v, want 3s", Short())
	}
	if Long() != DefaultLong {
		t.Errorf("Long() = %v, want default after invalid env", Long())
	}
}
