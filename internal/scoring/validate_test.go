package scoring

import (
	"testing"

	"github.com/hotelcapital/raise-engine/internal/models"
)

func TestInvestorScoreInput_Validate(t *testing.T) {
	lo, hi := 250000.0, 100000.0

	tests := []struct {
		name    string
		input   InvestorScoreInput
		wantErr bool
	}{
		{
			name: "valid",
			input: InvestorScoreInput{
				AccreditedStatus:      models.AccreditedSelfCertified,
				HospitalityExperience: models.ExperiencePassiveLP,
			},
		},
		{
			name:    "missing enums",
			input:   InvestorScoreInput{},
			wantErr: true,
		},
		{
			name: "unknown accreditation",
			input: InvestorScoreInput{
				AccreditedStatus:      "PENDING",
				HospitalityExperience: models.ExperienceNone,
			},
			wantErr: true,
		},
		{
			name: "negative counter",
			input: InvestorScoreInput{
				AccreditedStatus:      models.AccreditedUnverified,
				HospitalityExperience: models.ExperienceNone,
				EmailOpens30d:         -1,
			},
			wantErr: true,
		},
		{
			name: "inverted check size",
			input: InvestorScoreInput{
				AccreditedStatus:      models.AccreditedUnverified,
				HospitalityExperience: models.ExperienceNone,
				CheckSizeMin:          &lo,
				CheckSizeMax:          &hi,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
