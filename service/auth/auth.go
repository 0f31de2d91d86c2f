package auth

import (
	"errors"
	"fmt"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/model"
	"tutor-agent-backend/request"
	"tutor-agent-backend/service/personalize"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountRequired = errors.New("email or phone is required")

	// 账号不存在和密码错误返回同一个错误，不泄露注册状态
	ErrWrongPassword = errors.New("account or password incorrect")
)

func UserRegister(req request.UserRegisterRequest) (*model.User, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, ErrAccountRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &model.User{
		Name:                req.Name,
		PasswordHash:        string(hash),
		DefaultExplainLevel: personalize.LevelAuto,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := dao.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func UserLogin(req request.UserLoginRequest) (*model.User, error) {
	user, err := dao.GetUserByAccount(req.Account)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, ErrWrongPassword
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrWrongPassword
	}
	return user, nil
}

func ChangePassword(userID uint, req request.ChangePasswordRequest) error {
	user, err := dao.GetUserByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	return dao.UpdateUserPassword(userID, string(hash))
}
