package smtp

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/equiptrack/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeServer SMTP-сервер без STARTTLS: отвечает на приветствие и EHLO.
func fakeServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 localhost ESMTP\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case len(line) >= 4 && (line[:4] == "EHLO" || line[:4] == "HELO"):
				_, _ = conn.Write([]byte("250-localhost\r\n250 8BITMIME\r\n"))
			case len(line) >= 4 && line[:4] == "QUIT":
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			default:
				_, _ = conn.Write([]byte("250 ok\r\n"))
			}
		}
	}()
	return ln.Addr().String()
}

func TestTransport_RequiresHost(t *testing.T) {
	tr := NewTransport(config.SMTP{}, newNoopLogger())
	_, err := tr.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestTransport_RejectsServerWithoutSTARTTLS(t *testing.T) {
	host, port, err := net.SplitHostPort(fakeServer(t))
	require.NoError(t, err)

	tr := NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port, SMTPUser: "noreply@example.com"}, newNoopLogger())
	_, err = tr.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}

func TestTransport_GetSMTPUser(t *testing.T) {
	tr := NewTransport(config.SMTP{SMTPUser: "noreply@example.com"}, newNoopLogger())
	assert.Equal(t, "noreply@example.com", tr.GetSMTPUser())
}
