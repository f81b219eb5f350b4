package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type Logger struct {
	db  *gorm.DB
	log *slog.Logger
}

func New(db *gorm.DB, log *slog.Logger) *Logger {
	return &Logger{db: db, log: log}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var meta datatypes.JSON
	if ev.Metadata != nil {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			// O evento é gravado mesmo assim, só sem metadata.
			l.log.WarnContext(ctx, "audit metadata dropped",
				slog.String("action", ev.Action),
				logger.Err(err),
			)
		} else {
			meta = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: meta,
	}

	return l.db.WithContext(ctx).Create(&entry).Error
}
