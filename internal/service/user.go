package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/bookstore/internal/hash"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type UserRepo interface {
	FindUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	SearchUsers(ctx context.Context, f repo.UserFilter) ([]models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	FindUserByLogin(ctx context.Context, identifier string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	SoftDeleteUser(ctx context.Context, id uint) error
}

type UserService struct {
	Repo   UserRepo
	Events EventPublisher
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	taken, err := s.Repo.UsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("create_user_error", "status", 400, "reason", "username taken", "username", req.Username)
		return nil, fmt.Errorf("%w: user with username %s already exists", ErrValidation, req.Username)
	}

	taken, err = s.Repo.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("create_user_error", "status", 400, "reason", "email taken", "email", req.Email)
		return nil, fmt.Errorf("%w: user with email %s already exists", ErrValidation, req.Email)
	}

	digest, salt, err := hash.HashNew(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  digest,
		Salt:      salt,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleUser,
	}
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("create_user_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, map[string]any{
		"type":     "user_created",
		"userID":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	return s.Repo.FindUsers(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user with id %d not found", id)
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, opts transport.UserSearch) ([]models.User, error) {
	return s.Repo.SearchUsers(ctx, repo.UserFilter{
		Username:  opts.Username,
		FirstName: opts.FirstName,
		LastName:  opts.LastName,
		Email:     opts.Email,
	})
}

func (s *UserService) Update(ctx context.Context, id uint, patch transport.PatchUserRequest) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		digest, salt, err := hash.HashNew(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.Password = digest
		user.Salt = salt
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, map[string]any{
		"type":   "user_updated",
		"userID": user.ID,
	})
	return s.FindByID(ctx, id)
}

func (s *UserService) Remove(ctx context.Context, id uint) error {
	if err := s.Repo.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.Events, TopicUserEvents, id, map[string]any{
		"type":   "user_deleted",
		"userID": id,
	})
	return nil
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.RegisterResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	digest, salt, err := hash.HashNew(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "salt generation failed", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  digest,
		Salt:      salt,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleUser,
	}
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Warn("register_error", "status", 409, "username", req.Username, "error", err)
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	}

	l.Info("register_success", "user_id", user.ID, "username", user.Username)
	publish(ctx, s.Events, TopicUserEvents, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return &transport.RegisterResult{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.Password,
	}, nil
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	user, err := s.Repo.FindUserByLogin(ctx, req.Username)
	if err != nil {
		err = notFound(err, "user %s not found", req.Username)
		if errors.Is(err, ErrNotFound) {
			l.Warn("login_error", "status", 404, "reason", "user not found", "login", req.Username)
		}
		return nil, err
	}

	if !hash.Verify(req.Password, user.Salt, user.Password) {
		l.Warn("login_error", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	l.Info("login_success", "user_id", user.ID)
	return &transport.LoginResult{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
