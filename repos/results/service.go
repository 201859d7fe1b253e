// Package results stores confirmed final results in Firestore.
package results

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collection = "LiveResults"

var (
	ErrAlreadyRegistered = errors.New("result already registered")
	ErrNotFound          = errors.New("result not found")
)

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

// Create stores r under its public id. A game can only be registered once.
func (s *Service) Create(ctx context.Context, r Result) error {
	_, err := s.client.Collection(collection).Doc(r.PublicID).Create(ctx, r)
	if err != nil {
		return xerrors.Errorf("store result of %s: %w", r.PublicID, mapError(err))
	}
	return nil
}

func (s *Service) Get(ctx context.Context, publicID string) (*Result, error) {
	doc, err := s.client.Collection(collection).Doc(publicID).Get(ctx)
	if err != nil {
		return nil, xerrors.Errorf("get result of %s: %w", publicID, mapError(err))
	}
	var r Result
	if err := doc.DataTo(&r); err != nil {
		return nil, xerrors.Errorf("decode result of %s: %w", publicID, err)
	}
	return &r, nil
}

func mapError(err error) error {
	switch status.Code(err) {
	case codes.AlreadyExists:
		return ErrAlreadyRegistered
	case codes.NotFound:
		return ErrNotFound
	}
	return err
}
