package app

import (
	"context"
	"database/sql"
	"fmt"

	"cycle_companion_bot/internal/domain/partner"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"
)

// Custom application-level errors for partner management
var ErrPartnerAlreadyExists = fmt.Errorf("this person is already registered as a partner")
var ErrSelfPartner = fmt.Errorf("a user cannot be their own partner")

type PartnerService struct {
	userRepo    user.Repository
	partnerRepo partner.Repository
}

func NewPartnerService(ur user.Repository, pr partner.Repository) *PartnerService {
	return &PartnerService{
		userRepo:    ur,
		partnerRepo: pr,
	}
}

// AddPartner links a new partner to the owning user. Rejects duplicates and
// self-partnering.
func (s *PartnerService) AddPartner(ctx context.Context, ownerTelegramID, partnerTelegramID int64, partnerUsername string) (*partner.Partner, error) {
	owner, err := s.userRepo.GetByTelegramID(ctx, ownerTelegramID)
	if err != nil {
		return nil, err
	}

	if partnerTelegramID == ownerTelegramID {
		return nil, ErrSelfPartner
	}

	_, err = s.partnerRepo.GetByTelegramID(ctx, partnerTelegramID)
	if err == nil { // Partner found, so already exists
		return nil, ErrPartnerAlreadyExists
	}
	if err != idb.ErrPartnerNotFound {
		return nil, fmt.Errorf("failed to check existing partner: %w", err)
	}

	var username sql.NullString
	if partnerUsername != "" {
		username.String = partnerUsername
		username.Valid = true
	}

	newPartner := &partner.Partner{
		TelegramID: partnerTelegramID,
		Username:   username,
		UserID:     owner.ID,
	}

	if err := s.partnerRepo.Create(ctx, newPartner); err != nil {
		if err == idb.ErrDuplicatePartner {
			return nil, ErrPartnerAlreadyExists
		}
		return nil, fmt.Errorf("failed to create partner in repository: %w", err)
	}

	return newPartner, nil
}

// RemovePartner detaches a partner from the owning user.
func (s *PartnerService) RemovePartner(ctx context.Context, ownerTelegramID int64, partnerID int64) error {
	owner, err := s.userRepo.GetByTelegramID(ctx, ownerTelegramID)
	if err != nil {
		return err
	}

	if err := s.partnerRepo.Delete(ctx, partnerID, owner.ID); err != nil {
		if err == idb.ErrPartnerNotFound {
			return idb.ErrPartnerNotFound // Propagate specific error
		}
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	return nil
}

// ListPartners returns all partners of the owning user.
func (s *PartnerService) ListPartners(ctx context.Context, ownerTelegramID int64) ([]*partner.Partner, error) {
	owner, err := s.userRepo.GetByTelegramID(ctx, ownerTelegramID)
	if err != nil {
		return nil, err
	}
	return s.partnerRepo.ListByUser(ctx, owner.ID)
}

// UserByPartnerTelegramID resolves the tracked user a partner belongs to.
// Used when a partner opens the bot themselves.
func (s *PartnerService) UserByPartnerTelegramID(ctx context.Context, partnerTelegramID int64) (*user.User, error) {
	p, err := s.partnerRepo.GetByTelegramID(ctx, partnerTelegramID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, p.UserID)
}
