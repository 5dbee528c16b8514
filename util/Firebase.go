package util

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK.
// It returns (nil, nil) when no service account is configured; phone
// verification then works without the admin user lookup.
func InitFirebase(ctx context.Context, cfg FirebaseConfig, logger *zap.Logger) (*firebase.App, error) {
	var opt option.ClientOption

	switch {
	case cfg.CredentialsBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decode base64 credentials: %w", err)
		}
		logger.Info("using firebase credentials from base64 environment variable")
		opt = option.WithCredentialsJSON(decoded)
	case cfg.CredentialsFile != "":
		logger.Info("using firebase credentials file", zap.String("path", cfg.CredentialsFile))
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	default:
		logger.Warn("no firebase service account configured, admin user lookup disabled")
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	return app, nil
}
