package services

import (
	"fmt"
	"strings"

	"thrive/internal/domain"
	"thrive/internal/repositories"
	"thrive/internal/utils"
)

// Referral reward credited to the referrer when someone signs up with their
// code, in cents.
const referralRewardCents int64 = 1000

// ReferralService manages referral codes and their rewards.
type ReferralService struct {
	UserRepo  repositories.UserRepository
	Notifier  NotificationService
	RequestID string
}

// CodeFor derives a referral code from a new user id.
func (ReferralService) CodeFor(userID string) string {
	return utils.NewReferralCode(userID)
}

// Resolve validates a referral code and returns the referrer id without
// touching balances. The reward must wait until the referred account row
// exists. An unknown code is a validation error so registration can
// surface it.
func (s ReferralService) Resolve(code, newUserID string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", nil
	}
	referrer, err := s.UserRepo.GetByReferralCode(code)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.ValidationError{Field: "referralCode", Msg: "referral code not found"}
		}
		return "", err
	}
	if referrer.ID == newUserID {
		return "", domain.ValidationError{Field: "referralCode", Msg: "cannot use your own referral code"}
	}
	return referrer.ID, nil
}

// Reward credits a resolved referrer and notifies them. Call it only after
// the referred account has been created.
func (s ReferralService) Reward(referrerID, newUserID string) error {
	if referrerID == "" {
		return nil
	}
	if err := s.UserRepo.AddReferralCredits(referrerID, referralRewardCents); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "referral", "reward", "referrer="+referrerID+" new_user="+newUserID)
	s.Notifier.Notify(referrerID, "referral", "Referral Reward",
		fmt.Sprintf("Someone joined with your referral code. %s in credits was added to your account.",
			utils.FormatCents(referralRewardCents)), "")
	return nil
}

// Spend consumes credits against a booking total, returning the amount used.
func (s ReferralService) Spend(userID string, totalCents, availableCents int64) (int64, error) {
	_, used := PricingService{}.ApplyReferralCredit(totalCents, availableCents)
	if used == 0 {
		return 0, nil
	}
	if err := s.UserRepo.SpendReferralCredits(userID, used); err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "referral", "spend", fmt.Sprintf("user_id=%s cents=%d", userID, used))
	return used, nil
}
