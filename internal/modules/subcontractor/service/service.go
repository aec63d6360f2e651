package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/dispatchhub/internal/model"
	noticeRepo "anoa.com/dispatchhub/internal/modules/notice/repository"
	"anoa.com/dispatchhub/internal/modules/subcontractor/dto"
	userDto "anoa.com/dispatchhub/internal/modules/user/dto"
	userRepo "anoa.com/dispatchhub/internal/modules/user/repository"
	"anoa.com/dispatchhub/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// initialPassword is assigned to every newly registered driver; they are
// expected to change it on first sign-in.
const initialPassword = "1234"

type SubcontractorService interface {
	List(ctx context.Context) ([]*userDto.UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error)
	// Create registers a driver with the initial password. A phone number
	// already in use is a conflict.
	Create(ctx context.Context, input dto.CreateSubcontractorInput) (*userDto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateSubcontractorInput) (*userDto.UserResponse, error)
	// Delete removes the user's confirmation ledger rows, then soft-deletes
	// the user. Notices the user authored or confirmed stay intact.
	Delete(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error)
	// CreateContractor registers an administrator, guarded by the
	// deployment's contractor create key.
	CreateContractor(ctx context.Context, input dto.CreateContractorInput) (*userDto.UserResponse, error)
}

type subcontractorService struct {
	users               userRepo.UserRepository
	notices             noticeRepo.NoticeRepository
	contractorCreateKey string
}

func NewSubcontractorService(users userRepo.UserRepository, notices noticeRepo.NoticeRepository, contractorCreateKey string) SubcontractorService {
	return &subcontractorService{
		users:               users,
		notices:             notices,
		contractorCreateKey: contractorCreateKey,
	}
}

func (s *subcontractorService) List(ctx context.Context) ([]*userDto.UserResponse, error) {
	users, err := s.users.ListSubcontractors(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*userDto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, userDto.NewUserResponse(&users[i]))
	}
	return result, nil
}

func (s *subcontractorService) Get(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

func (s *subcontractorService) Create(ctx context.Context, input dto.CreateSubcontractorInput) (*userDto.UserResponse, error) {
	if err := s.ensurePhoneNumberFree(ctx, input.PhoneNumber); err != nil {
		return nil, err
	}

	expiration, err := time.Parse("2006-01-02", input.InsuranceExpirationDate)
	if err != nil {
		return nil, apperror.BadRequest("insurance expiration date must be formatted YYYY-MM-DD")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(initialPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Role:         model.RoleSubcontractor,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashed),
		UserInfo: &model.UserInfo{
			Realname:                input.Realname,
			DateOfBirth:             input.DateOfBirth,
			LicenseNumber:           input.LicenseNumber,
			LicenseType:             input.LicenseType,
			InsuranceNumber:         input.InsuranceNumber,
			InsuranceExpirationDate: expiration,
		},
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(&user), nil
}

func (s *subcontractorService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateSubcontractorInput) (*userDto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.PhoneNumber != input.PhoneNumber {
		if err := s.ensurePhoneNumberFree(ctx, input.PhoneNumber); err != nil {
			return nil, err
		}
		user.PhoneNumber = input.PhoneNumber
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	if user.UserInfo != nil {
		expiration, err := time.Parse("2006-01-02", input.InsuranceExpirationDate)
		if err != nil {
			return nil, apperror.BadRequest("insurance expiration date must be formatted YYYY-MM-DD")
		}

		user.UserInfo.Realname = input.Realname
		user.UserInfo.DateOfBirth = input.DateOfBirth
		user.UserInfo.LicenseNumber = input.LicenseNumber
		user.UserInfo.LicenseType = input.LicenseType
		user.UserInfo.InsuranceNumber = input.InsuranceNumber
		user.UserInfo.InsuranceExpirationDate = expiration
		if err := s.users.SaveInfo(ctx, user.UserInfo); err != nil {
			return nil, err
		}
	}

	return userDto.NewUserResponse(user), nil
}

func (s *subcontractorService) Delete(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.notices.DeleteConfirmationsByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, user); err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

func (s *subcontractorService) CreateContractor(ctx context.Context, input dto.CreateContractorInput) (*userDto.UserResponse, error) {
	if s.contractorCreateKey == "" || input.ContractorCreateKey != s.contractorCreateKey {
		return nil, apperror.Forbidden("contractor create key does not match")
	}

	if err := s.ensurePhoneNumberFree(ctx, input.PhoneNumber); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	contractor := model.User{
		Role:         model.RoleContractor,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(ctx, &contractor); err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(&contractor), nil
}

func (s *subcontractorService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("user %s not found", id))
		}
		return nil, err
	}
	return user, nil
}

func (s *subcontractorService) ensurePhoneNumberFree(ctx context.Context, phoneNumber string) error {
	_, err := s.users.FindByPhoneNumber(ctx, phoneNumber)
	if err == nil {
		return apperror.Conflict("this phone number is already in use")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
