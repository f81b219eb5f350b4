package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/BruksfildServices01/care-marketplace/internal/config"
)

// Setup cria o logger JSON da aplicação. Ambientes local e dev saem em
// Debug, produção em Info.
func Setup(env string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	level := slog.LevelInfo
	switch env {
	case config.EnvLocal, config.EnvDev:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Err padroniza o atributo de erro nos logs.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Discard é usado em testes.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
