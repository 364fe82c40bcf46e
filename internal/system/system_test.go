package system

import "testing"

func TestStatusURL(t *testing.T) {
	cases := []struct {
		host, listen, want string
	}{
		{"192.168.1.20", ":80", "http://192.168.1.20/"},
		{"192.168.1.20", ":8080", "http://192.168.1.20:8080/"},
		{"", ":8080", "http://localhost:8080/"},
		{"", "0.0.0.0:9000", "http://localhost:9000/"},
		{"", "10.0.0.5:80", "http://10.0.0.5/"},
		{"fe80::1", ":8080", "http://[fe80::1]:8080/"},
		{"box", "", "http://box/"},
	}
	for _, tc := range cases {
		if got := StatusURL(tc.host, tc.listen); got != tc.want {
			t.Errorf("StatusURL(%q, %q) = %q, want %q", tc.host, tc.listen, got, tc.want)
		}
	}
}

type recordLogger struct{ errs, infos int }

func (l *recordLogger) Infof(string, string, ...interface{})  { l.infos++ }
func (l *recordLogger) Errorf(string, string, ...interface{}) { l.errs++ }

func TestConsoleWithoutDevices(t *testing.T) {
	l := &recordLogger{}
	c := &Console{Paths: []string{t.TempDir() + "/missing-tty"}, Logger: l}
	if err := c.Enter(); err == nil {
		t.Fatal("Enter succeeded without a console")
	}
	if c.InGraphicsMode() {
		t.Fatal("graphics mode recorded after failure")
	}
	if l.errs != 1 {
		t.Fatalf("logged %d errors, want 1", l.errs)
	}
	if err := c.Restore(); err != nil {
		t.Fatalf("Restore after failed Enter: %v", err)
	}
}
