package service

import (
	"database/sql"
	"log"
	"time"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/repository"
)

// MatcherService flags standing interest requests when matching availability
// appears. Matching is best-effort: a failure for one interested user is
// logged and never affects the others, and delivery is a separate step that
// consumes ListPendingMatches.
type MatcherService struct {
	Interests *repository.InterestRepository
	sender    *SenderService
}

func NewMatcherService(interests *repository.InterestRepository, sender *SenderService) *MatcherService {
	return &MatcherService{Interests: interests, sender: sender}
}

// RegisterInterest files a standing request for the given date and time range,
// optionally limited to one spot.
func (s *MatcherService) RegisterInterest(userID int, spotID *int, date time.Time, startTime, endTime time.Time) (*db.InterestRequest, error) {
	interest := &db.InterestRequest{
		UserID:       userID,
		DesiredDate:  date,
		DesiredStart: startTime,
		DesiredEnd:   endTime,
	}
	if spotID != nil {
		interest.SpotID = sql.NullInt64{Int64: int64(*spotID), Valid: true}
	}
	if err := s.Interests.CreateInterest(interest); err != nil {
		return nil, err
	}
	return interest, nil
}

// OnWindowAdded scans active interest requests overlapping the new window and
// records a pending match for each. Runs off the supplier's request path.
func (s *MatcherService) OnWindowAdded(window *db.SpotWindow) error {
	interests, err := s.Interests.ActiveInterestsFor(window.SpotID, window.StartTime, window.EndTime)
	if err != nil {
		return err
	}
	for _, interest := range interests {
		match := &db.InterestMatch{
			InterestID: interest.ID,
			WindowID:   window.ID,
			UserID:     interest.UserID,
			SpotID:     window.SpotID,
		}
		if err := s.Interests.CreateMatch(match); err != nil {
			log.Printf("Could not record match for interest %d on window %d: %v", interest.ID, window.ID, err)
		}
	}
	return nil
}

func (s *MatcherService) ListPendingMatches() ([]entities.InterestMatchView, error) {
	return s.Interests.ListPendingMatches()
}

// DeliverPendingMatches pushes every pending match out through the sender and
// marks the delivered ones. One failed delivery leaves its match pending and
// moves on.
func (s *MatcherService) DeliverPendingMatches() error {
	matches, err := s.Interests.ListPendingMatches()
	if err != nil {
		return err
	}
	for _, match := range matches {
		if s.sender != nil {
			notification := entities.MatchNotification{
				RecipientName:  match.UserName,
				RecipientPhone: match.UserPhone,
				SpotNumber:     match.SpotNumber,
				Address:        match.Address,
				PricePerHour:   match.PricePerHour,
				StartTime:      match.StartTime,
				EndTime:        match.EndTime,
			}
			if err := s.sender.SendMatchSMS(notification); err != nil {
				log.Printf("Match %d: delivery failed, will retry next run: %v", match.MatchID, err)
				continue
			}
		}
		if err := s.Interests.MarkMatchNotified(match.MatchID); err != nil {
			log.Printf("Match %d: delivered but could not mark notified: %v", match.MatchID, err)
			continue
		}
		// A delivered match fulfils the standing request.
		if err := s.Interests.DeactivateInterest(match.InterestID); err != nil {
			log.Printf("Interest %d: could not deactivate after delivery: %v", match.InterestID, err)
		}
	}
	return nil
}
