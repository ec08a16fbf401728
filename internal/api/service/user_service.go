package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

var (
	ErrUserNotFound     = apierr.NotFound("user not found")
	ErrUsernameInUse    = apierr.Validation("user with this username already exists")
	ErrEmailInUse       = apierr.Validation("user with this email already exists")
	ErrRoleChangeDenied = apierr.Validation("only an administrator can change the role")
)

type UserService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, in dto.CreateUserDTO) (dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (dto.UserResponse, error)
	// Update applies a partial update on behalf of actor. Role writes by a
	// non-admin actor are rejected, including self-updates via /users/me.
	Update(ctx context.Context, actor *models.User, target *models.User, in dto.UpdateUserDTO) (dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, actor *models.User, username string, in dto.UpdateUserDTO) (dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	FindModelByUsername(ctx context.Context, username string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.ListComplete(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (dto.UserResponse, error) {
	role := models.RoleUser
	if in.Role != "" {
		role = models.Role(in.Role)
	}

	user := &models.User{
		Username:  &in.Username,
		Email:     in.Email,
		Role:      role,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}

	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		hash := string(hashed)
		user.Password = &hash
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return dto.UserResponse{}, uniqueUserError(err)
		}
		return dto.UserResponse{}, err
	}
	return dto.UserFromModel(user), nil
}

// uniqueUserError tells apart which of the two unique columns collided.
// Users carry unique indexes on both email and username; the constraint
// name is only known at the driver level, so an untranslated violation
// defaults to the username error.
func uniqueUserError(err error) error {
	if strings.Contains(repository.UniqueViolationConstraint(err), "email") {
		return ErrEmailInUse
	}
	return ErrUsernameInUse
}

func (s *userService) GetByUsername(ctx context.Context, username string) (dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.UserFromModel(user), nil
}

func (s *userService) FindModelByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findByUsername(ctx, username)
}

func (s *userService) Update(ctx context.Context, actor *models.User, target *models.User, in dto.UpdateUserDTO) (dto.UserResponse, error) {
	// Role is write-protected for everyone but administrators, no matter
	// whose record is being updated.
	if in.Role != nil && !actor.IsAdmin() {
		return dto.UserResponse{}, ErrRoleChangeDenied
	}

	if in.Username != nil {
		target.Username = in.Username
	}
	if in.Role != nil {
		target.Role = models.Role(*in.Role)
	}
	if in.FirstName != nil {
		target.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		target.LastName = *in.LastName
	}
	if in.Bio != nil {
		target.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		if repository.IsUniqueViolation(err) {
			return dto.UserResponse{}, ErrUsernameInUse
		}
		return dto.UserResponse{}, err
	}
	return dto.UserFromModel(target), nil
}

func (s *userService) UpdateByUsername(ctx context.Context, actor *models.User, username string, in dto.UpdateUserDTO) (dto.UserResponse, error) {
	target, err := s.findByUsername(ctx, username)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return s.Update(ctx, actor, target, in)
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	target, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
