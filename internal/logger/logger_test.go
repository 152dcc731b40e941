package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	req := require.New(t)

	req.Equal(zapcore.DebugLevel, ParseLevel(" DEBUG "))
	req.Equal(zapcore.InfoLevel, ParseLevel("info"))
	req.Equal(zapcore.ErrorLevel, ParseLevel("error"))
	req.Equal(zapcore.WarnLevel, ParseLevel("warning"))
	req.Equal(zapcore.WarnLevel, ParseLevel(""))
}

func TestNew_Writes_To_File(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "node.log")

	log, err := New("info", path)
	req.NoError(err)
	log.Info("node listening")
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	req.NoError(err)
	req.Contains(string(raw), "node listening")
}
