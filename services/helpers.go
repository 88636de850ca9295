package services

import (
	"errors"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/storage"
)

// --- Общие хелперы ---

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusUpcoming:  {models.StatusOngoing},
		models.StatusOngoing:   {models.StatusCompleted},
		models.StatusCompleted: {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func isKnownStatus(status models.TournamentStatus) bool {
	switch status {
	case models.StatusUpcoming, models.StatusOngoing, models.StatusCompleted:
		return true
	}
	return false
}

// mapRepoError переводит ошибки репозитория в сервисные sentinel-ошибки.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrSeasonNotFound):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrSeasonNameConflict):
		return ErrSeasonNameConflict
	case errors.Is(err, repositories.ErrSeasonInUse):
		return ErrSeasonInUse
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTournamentInvalidSeason):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrResultNotFound):
		return ErrResultNotFound
	case errors.Is(err, repositories.ErrResultConflict):
		return ErrAlreadyAdmitted
	case errors.Is(err, repositories.ErrResultInvalidPlayer):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return ErrApplicationNotFound
	case errors.Is(err, repositories.ErrApplicationConflict):
		return ErrAlreadyApplied
	case errors.Is(err, repositories.ErrTournamentStatusConflict):
		return ErrTournamentInvalidStatusTransition
	default:
		return err
	}
}

// --- Хелперы для заполнения URL аватаров ---

func populatePlayerAvatarURLFunc(player *models.Player, uploader storage.FileUploader) {
	if player != nil && player.AvatarKey != nil && *player.AvatarKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*player.AvatarKey)
		if url != "" {
			player.AvatarURL = &url
		}
	}
}

func populatePlayerListAvatarURLs(players []models.Player, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for i := range players {
		populatePlayerAvatarURLFunc(&players[i], uploader)
	}
}
