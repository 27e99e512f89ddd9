package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// UserService implements account profile operations: the self-service
// subset plus the admin management surface.
type UserService struct {
	accounts ports.AccountRepository
	log      zerolog.Logger
}

func NewUserService(accounts ports.AccountRepository, log zerolog.Logger) *UserService {
	return &UserService{accounts: accounts, log: log}
}

func (s *UserService) Me(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, accountID)
}

func (s *UserService) UpdateMe(ctx context.Context, accountID string, input ports.UpdateMeInput) (*domain.Account, error) {
	return s.accounts.UpdateProfile(ctx, accountID, ports.ProfilePatch{
		Name:  input.Name,
		Email: input.Email,
		Photo: input.Photo,
	})
}

func (s *UserService) DeactivateMe(ctx context.Context, accountID string) error {
	if err := s.accounts.Deactivate(ctx, accountID); err != nil {
		return err
	}
	s.log.Info().Str("account_id", accountID).Msg("account deactivated")
	return nil
}

func (s *UserService) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Account, error) {
	if patch.Role != nil && !domain.ValidRole(*patch.Role) {
		return nil, domain.ErrForbidden
	}
	return s.accounts.UpdateProfile(ctx, id, patch)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.accounts.Delete(ctx, id)
}
