package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trip-planner/internal/models"
	"trip-planner/pkg/email"
	"trip-planner/pkg/utils"
)

const shareTokenBytes = 10

func (s *Service) shareURL(code string) string {
	return fmt.Sprintf("%s/shared/%s", s.cfg.ClientOrigin, code)
}

// CreateShareCode mints (or, under the single-code policy, reuses) a share
// code for an itinerary. When the request names a recipient the link is
// mailed out; a mail failure does not fail the request, it only clears the
// EmailSent flag.
func (s *Service) CreateShareCode(ctx context.Context, userID string, itineraryID int, req models.CreateShareCodeRequest) (*models.ShareCodeResponse, error) {
	itin, err := s.authorizeItinerary(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	var share *models.ShareCode
	if s.cfg.SharePolicy == "single" {
		share, err = s.repo.LatestShareCode(ctx, itineraryID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service.CreateShareCode: %w", err)
		}
	}
	if share == nil {
		code, err := utils.GenerateSecureToken(shareTokenBytes)
		if err != nil {
			return nil, fmt.Errorf("service.CreateShareCode: %w", err)
		}
		share, err = s.repo.CreateShareCode(ctx, itineraryID, code)
		if err != nil {
			return nil, fmt.Errorf("service.CreateShareCode: %w", err)
		}
	}

	resp := &models.ShareCodeResponse{
		Code:     share.Code,
		ShareURL: s.shareURL(share.Code),
	}

	if req.Email != "" && s.emailer != nil {
		html, err := s.templates.GenerateShareItineraryEmailHTML(email.ShareTemplateData{
			ItineraryTitle: itin.Title,
			Link:           resp.ShareURL,
		})
		if err != nil {
			return nil, fmt.Errorf("service.CreateShareCode template: %w", err)
		}
		subject := fmt.Sprintf("Itinerary shared with you: %s", itin.Title)
		plain := fmt.Sprintf("An itinerary was shared with you. View it at %s", resp.ShareURL)
		if err := s.emailer.SendEmail(ctx, req.Email, subject, plain, html); err != nil {
			log.Printf("share email to %s failed: %v", req.Email, err)
		} else {
			resp.EmailSent = true
		}
	}
	return resp, nil
}

// GetShareCode returns the most recent share code of an itinerary.
func (s *Service) GetShareCode(ctx context.Context, userID string, itineraryID int) (*models.ShareCodeResponse, error) {
	if _, err := s.authorizeItinerary(ctx, userID, itineraryID); err != nil {
		return nil, err
	}
	share, err := s.repo.LatestShareCode(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	return &models.ShareCodeResponse{
		Code:     share.Code,
		ShareURL: s.shareURL(share.Code),
	}, nil
}

// ResolveShareCode maps a public share code to the itinerary it names. No
// ownership check: share links are the unauthenticated read path.
func (s *Service) ResolveShareCode(ctx context.Context, code string) (*models.MenuDetails, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty share code", models.ErrInvalidInput)
	}
	itineraryID, err := s.repo.FindItineraryIDByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	itin, err := s.repo.FindItinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	return &models.MenuDetails{
		ID:        itin.ID,
		Title:     itin.Title,
		StartDate: itin.StartDate,
		EndDate:   itin.EndDate,
	}, nil
}
