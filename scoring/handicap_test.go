package scoring

import (
	"context"
	"testing"

	"github.com/strikezone/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	results []models.ParticipationResult
	err     error
}

func (s *stubHistory) RecentCompletedResults(_ context.Context, _, _, limit int) ([]models.ParticipationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > limit {
		return s.results[:limit], nil
	}
	return s.results, nil
}

func resultWithScores(scores ...int64) models.ParticipationResult {
	return models.ParticipationResult{QualificationScores: scores}
}

func TestComputeHandicap(t *testing.T) {
	tests := []struct {
		name     string
		history  []models.ParticipationResult
		expected *int
	}{
		{
			name:     "No history",
			history:  nil,
			expected: nil,
		},
		{
			name:     "One completed tournament is not enough",
			history:  []models.ParticipationResult{resultWithScores(150, 160, 170)},
			expected: nil,
		},
		{
			name: "All games unplayed",
			history: []models.ParticipationResult{
				resultWithScores(0, 0, 0),
				resultWithScores(0, 0),
			},
			expected: nil,
		},
		{
			name: "Average exactly at base gives zero",
			history: []models.ParticipationResult{
				resultWithScores(180, 180, 180),
				resultWithScores(180, 180, 180),
			},
			expected: intPtr(0),
		},
		{
			name: "Below-average bowler gets positive handicap",
			history: []models.ParticipationResult{
				resultWithScores(160, 160, 160),
				resultWithScores(160, 160, 160),
			},
			expected: intPtr(10),
		},
		{
			name: "Low average clamps at plus fifteen",
			history: []models.ParticipationResult{
				resultWithScores(120, 120, 120),
				resultWithScores(120, 120, 120),
			},
			expected: intPtr(15),
		},
		{
			name: "High average clamps at minus fifteen",
			history: []models.ParticipationResult{
				resultWithScores(240, 240, 240),
				resultWithScores(240, 240, 240),
			},
			expected: intPtr(-15),
		},
		{
			name: "Zero entries are skipped as unplayed",
			history: []models.ParticipationResult{
				resultWithScores(160, 0, 160),
				resultWithScores(0, 160),
			},
			expected: intPtr(10),
		},
		{
			name: "Only the first six games of a tournament count",
			history: []models.ParticipationResult{
				// Seventh and eighth games would drag the average down
				// if they were counted.
				resultWithScores(180, 180, 180, 180, 180, 180, 0, 90),
				resultWithScores(180, 180),
			},
			expected: intPtr(0),
		},
		{
			name: "Half rounds away from zero",
			history: []models.ParticipationResult{
				// Average 179: raw (180-179)/2 = 0.5 -> 1
				resultWithScores(179, 179),
				resultWithScores(179, 179),
			},
			expected: intPtr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewHandicapCalculator(&stubHistory{results: tt.history})
			handicap, err := calc.ComputeHandicap(context.Background(), 1, 1)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, handicap)
				return
			}
			require.NotNil(t, handicap)
			assert.Equal(t, *tt.expected, *handicap)
		})
	}
}

func TestComputeHandicapBounded(t *testing.T) {
	averages := []int64{1, 60, 120, 150, 179, 180, 181, 200, 250, 299}
	for _, avg := range averages {
		calc := NewHandicapCalculator(&stubHistory{results: []models.ParticipationResult{
			resultWithScores(avg, avg, avg),
			resultWithScores(avg, avg, avg),
		}})
		handicap, err := calc.ComputeHandicap(context.Background(), 1, 1)
		require.NoError(t, err)
		require.NotNil(t, handicap)
		assert.GreaterOrEqual(t, *handicap, -15)
		assert.LessOrEqual(t, *handicap, 15)
	}
}

func intPtr(v int) *int {
	return &v
}
