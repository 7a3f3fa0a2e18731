package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/kasionely/korner-integrations-service/model"
	"google.golang.org/api/option"
)

const firebaseSessionsPath = "brief_state"

// firebaseRecord is the stored form of a session. The Realtime Database has
// no expiry of its own, so ExpiresAt is checked on every read.
type firebaseRecord struct {
	model.Session
	ExpiresAt int64 `json:"expiresAt"` // unix milliseconds
}

func (r *firebaseRecord) live(now time.Time) *model.Session {
	if r == nil || r.ExpiresAt <= now.UnixMilli() {
		return nil
	}
	s := r.Session
	return &s
}

// FirebaseStore keeps brief sessions in the Firebase Realtime Database.
// Conditional writes run as database transactions.
type FirebaseStore struct {
	app    *firebase.App
	client *db.Client
	now    func() time.Time
}

// NewFirebaseStore creates a store from a service account key file and database URL
func NewFirebaseStore(ctx context.Context, serviceAccountKeyPath string, databaseURL string) (*FirebaseStore, error) {
	opt := option.WithCredentialsFile(serviceAccountKeyPath)

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %v", err)
	}

	return &FirebaseStore{
		app:    app,
		client: client,
		now:    time.Now,
	}, nil
}

func (fs *FirebaseStore) ref(userID int64) *db.Ref {
	return fs.client.NewRef(firebaseSessionsPath).Child(strconv.FormatInt(userID, 10))
}

func (fs *FirebaseStore) Get(ctx context.Context, userID int64) (*model.Session, error) {
	var rec *firebaseRecord
	if err := fs.ref(userID).Get(ctx, &rec); err != nil {
		return nil, fmt.Errorf("error reading brief session: %w", err)
	}
	s := rec.live(fs.now())
	if s == nil {
		return nil, model.ErrNoActiveSession
	}
	return s, nil
}

func (fs *FirebaseStore) Save(ctx context.Context, userID int64, s *model.Session, ttl time.Duration) error {
	var version int64
	err := fs.ref(userID).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		next, err := saveRecord(node, s, ttl, fs.now())
		if err != nil {
			return nil, err
		}
		version = next.Version
		return next, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("error saving brief session: %w", err)
	}
	s.Version = version
	return nil
}

func (fs *FirebaseStore) Delete(ctx context.Context, userID int64, version int64) error {
	if version == model.AnyVersion {
		if err := fs.ref(userID).Delete(ctx); err != nil {
			return fmt.Errorf("error deleting brief session: %w", err)
		}
		return nil
	}

	err := fs.ref(userID).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		if err := deleteRecord(node, version, fs.now()); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("error deleting brief session: %w", err)
	}
	return nil
}

// unmarshaler is the part of db.TransactionNode the transaction bodies use.
type unmarshaler interface {
	Unmarshal(v interface{}) error
}

func currentRecord(node unmarshaler, now time.Time) (*model.Session, error) {
	var rec *firebaseRecord
	if err := node.Unmarshal(&rec); err != nil {
		return nil, fmt.Errorf("error decoding brief session: %w", err)
	}
	return rec.live(now), nil
}

func saveRecord(node unmarshaler, s *model.Session, ttl time.Duration, now time.Time) (*firebaseRecord, error) {
	stored, err := currentRecord(node, now)
	if err != nil {
		return nil, err
	}
	version, err := nextVersion(stored, s)
	if err != nil {
		return nil, err
	}

	next := &firebaseRecord{Session: *s.Clone(), ExpiresAt: now.Add(ttl).UnixMilli()}
	next.Version = version
	return next, nil
}

func deleteRecord(node unmarshaler, version int64, now time.Time) error {
	stored, err := currentRecord(node, now)
	if err != nil {
		return err
	}
	return checkDelete(stored, version)
}
