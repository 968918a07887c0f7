package cmd

import (
	"os"
	"testing"
)

func TestValidateAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		// Valid addresses
		{name: "port only", addr: ":8081", wantErr: false},
		{name: "localhost", addr: "localhost:8081", wantErr: false},
		{name: "loopback", addr: "127.0.0.1:8081", wantErr: false},
		{name: "all interfaces", addr: "0.0.0.0:80", wantErr: false},
		{name: "ipv6 loopback", addr: "[::1]:8081", wantErr: false},
		{name: "port zero", addr: ":0", wantErr: false},
		{name: "port max", addr: ":65535", wantErr: false},
		{name: "hostname", addr: "myhost:9090", wantErr: false},

		// Invalid: bad format
		{name: "no port", addr: "localhost", wantErr: true},
		{name: "port alone", addr: "8081", wantErr: true},
		{name: "empty string", addr: "", wantErr: true},

		// Invalid: bad port
		{name: "port non-numeric", addr: ":abc", wantErr: true},
		{name: "port negative", addr: ":-1", wantErr: true},
		{name: "port too high", addr: ":65536", wantErr: true},
		{name: "port empty after colon", addr: "localhost:", wantErr: true},

		// Invalid: bad host
		{name: "host with space", addr: "my host:8081", wantErr: true},
		{name: "host with tab", addr: "my\thost:8081", wantErr: true},
		{name: "host with newline", addr: "my\nhost:8081", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateAddr(tt.addr)
			if tt.wantErr && err == nil {
				t.Errorf("validateAddr(%q) = nil, want error", tt.addr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateAddr(%q) = %v, want nil", tt.addr, err)
			}
		})
	}
}

func TestParseServeAddr(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "default", args: []string{"stackguide", "serve"}, want: "127.0.0.1:8081"},
		{name: "positional", args: []string{"stackguide", "serve", ":9090"}, want: ":9090"},
		{name: "flag", args: []string{"stackguide", "serve", "--addr", ":9090"}, want: ":9090"},
		{name: "single dash flag", args: []string{"stackguide", "serve", "-addr", "localhost:3000"}, want: "localhost:3000"},
		{name: "invalid positional", args: []string{"stackguide", "serve", "not-an-addr"}, wantErr: true},
		{name: "invalid flag value", args: []string{"stackguide", "serve", "--addr", ":99999"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()
			os.Args = tt.args

			got, err := parseServeAddr()
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseServeAddr() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseServeAddr() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseServeAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func FuzzValidateAddr(f *testing.F) {
	f.Add(":8081")
	f.Add("localhost:8081")
	f.Add("127.0.0.1:80")
	f.Add("")
	f.Add("abc")
	f.Add(":0")
	f.Add(":99999")
	f.Add("[::1]:8081")
	f.Add("host with space:80")

	f.Fuzz(func(t *testing.T, addr string) {
		_ = validateAddr(addr) // must not panic
	})
}
