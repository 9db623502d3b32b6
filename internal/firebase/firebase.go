package firebase

import (
	"context"
	"fmt"

	"learnhub/internal/config"
	"learnhub/internal/qerrors"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"github.com/golang/glog"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase clients.
type App struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewApp initializes Firebase from the credentials named in cfg. Any failure is reported as
// qerrors.BackendUnavailable.
func NewApp(ctx context.Context, cfg *config.ServerConfig) (*App, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	var fbConfig *firebaseSDK.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebaseSDK.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebaseSDK.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, qerrors.Unavailable(fmt.Errorf("error initializing Firebase app: %v", err))
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, qerrors.Unavailable(fmt.Errorf("error getting Auth client: %v", err))
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, qerrors.Unavailable(fmt.Errorf("error getting Firestore client: %v", err))
	}

	glog.Infof("✅ Successfully initialized Firebase app")
	return &App{Auth: authClient, Firestore: firestoreClient}, nil
}

func (a *App) Close() error {
	return a.Firestore.Close()
}
