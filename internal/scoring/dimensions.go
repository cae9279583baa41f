package scoring

import (
	"strings"

	"github.com/hotelcapital/raise-engine/internal/models"
)

var accreditationScores = map[models.AccreditedStatus]int{
	models.AccreditedThirdPartyVerified: 100,
	models.AccreditedInstitutional:      100,
	models.AccreditedSelfCertified:      70,
	models.AccreditedUnverified:         30,
	models.AccreditedNotAccredited:      0,
}

var experienceScores = map[models.HospitalityExperience]int{
	models.ExperienceDeveloper: 30,
	models.ExperienceOperator:  28,
	models.ExperienceActiveLP:  25,
	models.ExperiencePassiveLP: 20,
	models.ExperienceNone:      5,
}

// Unknown statuses score as not accredited.
func scoreAccreditation(status models.AccreditedStatus) int {
	return accreditationScores[status]
}

func scoreCheckSizeFit(checkMin, checkMax *float64, dealMin, dealTarget float64) int {
	mid, known := checkSizeMidpoint(checkMin, checkMax)
	if !known {
		return 20
	}

	switch {
	case mid >= dealTarget:
		return 100
	case mid >= dealMin*2:
		return 85
	case mid >= dealMin:
		return 65
	case mid >= dealMin*0.5:
		return 35
	default:
		return 10
	}
}

// A zero bound counts as not given. With a single bound the midpoint is
// that bound.
func checkSizeMidpoint(checkMin, checkMax *float64) (float64, bool) {
	hasMin := checkMin != nil && *checkMin != 0
	hasMax := checkMax != nil && *checkMax != 0

	switch {
	case hasMin && hasMax:
		return (*checkMin + *checkMax) / 2, true
	case hasMin:
		return *checkMin, true
	case hasMax:
		return *checkMax, true
	}
	return 0, false
}

func scoreAssetAlignment(prefs []string, priorHotel int, experience models.HospitalityExperience) int {
	score := 0

	switch {
	case prefersHospitality(prefs):
		score += 40
	case len(prefs) == 0:
		score += 15
	default:
		score += 5
	}

	switch {
	case priorHotel >= 5:
		score += 30
	case priorHotel >= 2:
		score += 25
	case priorHotel >= 1:
		score += 15
	}

	score += experienceScores[experience]

	return min(score, 100)
}

func prefersHospitality(prefs []string) bool {
	for _, p := range prefs {
		p = strings.ToLower(p)
		if strings.Contains(p, "hotel") || strings.Contains(p, "hospitality") {
			return true
		}
	}
	return false
}

// Replies are the strongest buying signal and carry the largest cap.
func scoreEngagement(input InvestorScoreInput) int {
	score := 0
	score += capped(input.EmailReplies30d, 30, 40)
	score += capped(input.EmailClicks30d, 10, 25)
	score += capped(input.EmailOpens30d, 3, 15)
	score += capped(input.VoiceCallsCompleted30d, 15, 20)
	return min(score, 100)
}

func scoreBehavioral(input InvestorScoreInput) int {
	score := 0
	score += capped(input.WebsiteVisits30d, 8, 40)
	score += capped(input.DocDownloads30d, 20, 60)
	return min(score, 100)
}

func scoreRelationship(isPrior, isReferral bool) int {
	switch {
	case isPrior && isReferral:
		return 100
	case isPrior:
		return 90
	case isReferral:
		return 75
	default:
		return 15
	}
}

// A deadline already in the past counts as inside 30 days.
func scoreUrgency(has1031 bool, deadlineDays *int) int {
	score := 0
	if has1031 {
		score += 60
	}
	if deadlineDays != nil {
		switch d := *deadlineDays; {
		case d <= 30:
			score += 40
		case d <= 90:
			score += 25
		case d <= 180:
			score += 10
		}
	}
	return min(score, 100)
}

// capped awards per points for each of n occurrences, bounded to [0, limit].
// The count is compared before multiplying so huge counters cannot overflow.
func capped(n, per, limit int) int {
	if n <= 0 {
		return 0
	}
	if n >= (limit+per-1)/per {
		return limit
	}
	return n * per
}
