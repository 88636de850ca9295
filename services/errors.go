package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrPlayerNameRequired     = errors.New("player first and last name are required")
	ErrSeasonNameRequired     = errors.New("season name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidPointsTable     = errors.New("points distribution must map positive placements to non-negative points")
	ErrInvalidScores          = errors.New("scores must be non-negative")
	ErrTooManyQualGames       = errors.New("qualification scores exceed the required game count")
	ErrInvalidFinalsGames     = errors.New("finals must contain exactly two games or none")
	ErrScoresLocked           = errors.New("scores cannot change after the tournament is completed")

	// Ошибки конфликтов
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrAlreadyAdmitted        = errors.New("player is already admitted to this tournament")
	ErrAlreadyApplied         = errors.New("player has already applied to this tournament")
	ErrApplicationResolved    = errors.New("application has already been resolved")
	ErrSeasonNameConflict     = errors.New("season name is already in use")
	ErrSeasonInUse            = errors.New("season has tournaments and cannot be deleted")
	ErrTournamentNameConflict = errors.New("tournament name is already in use in this season")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound        = errors.New("user not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrSeasonNotFound      = errors.New("season not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrResultNotFound      = errors.New("participation result not found")
	ErrApplicationNotFound = errors.New("application not found")

	// Ошибки статусов турнира
	ErrTournamentInvalidStatus           = errors.New("invalid tournament status provided")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrTournamentInvalidDate             = errors.New("tournament date must fall inside the season")
	ErrSeasonInvalidDateRange            = errors.New("season end date must be after start date")
	ErrAdmissionClosed                   = errors.New("tournament no longer accepts participants")
)
