package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/storage"
)

type CreatePlayerInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
	Active    *bool   `json:"active"`
}

type PlayerService struct {
	repo     repositories.PlayerRepository
	uploader storage.FileUploader
}

func NewPlayerService(repo repositories.PlayerRepository, uploader storage.FileUploader) *PlayerService {
	return &PlayerService{repo: repo, uploader: uploader}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Active:    true,
	}
	if input.Active != nil {
		player.Active = *input.Active
	}

	if err := s.repo.Create(ctx, player); err != nil {
		return nil, mapRepoError(err)
	}
	return player, nil
}

func (s *PlayerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	populatePlayerAvatarURLFunc(player, s.uploader)
	return player, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, error) {
	players, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	populatePlayerListAvatarURLs(players, s.uploader)
	return players, nil
}

func (s *PlayerService) UpdatePlayer(ctx context.Context, id int, input CreatePlayerInput) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if input.FirstName != "" {
		player.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		player.LastName = strings.TrimSpace(input.LastName)
	}
	if input.Email != nil {
		player.Email = input.Email
	}
	if input.Active != nil {
		player.Active = *input.Active
	}

	if err := s.repo.Update(ctx, player); err != nil {
		return nil, mapRepoError(err)
	}
	populatePlayerAvatarURLFunc(player, s.uploader)
	return player, nil
}

func (s *PlayerService) DeletePlayer(ctx context.Context, id int) error {
	return mapRepoError(s.repo.Delete(ctx, id))
}

// UploadAvatar загружает аватар игрока в R2 и сохраняет ключ.
func (s *PlayerService) UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, playerID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	key := fmt.Sprintf("players/%d/avatar_%d", playerID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := player.AvatarKey
	if err := s.repo.UpdateAvatarKey(ctx, playerID, &result.Key); err != nil {
		return nil, mapRepoError(err)
	}
	if oldKey != nil && *oldKey != "" {
		// Старый файл больше не нужен; ошибка удаления не критична.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.AvatarKey = &result.Key
	populatePlayerAvatarURLFunc(player, s.uploader)
	return player, nil
}
