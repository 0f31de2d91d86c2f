package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrUserRegister  = errors.New("failed to register user")
	ErrGenerateToken = errors.New("failed to generate token")
	ErrUserLogin     = errors.New("failed to login")

	ErrCreateQuery    = errors.New("failed to create query session")
	ErrUploadImage    = errors.New("failed to upload problem image")
	ErrRevealAnswer   = errors.New("failed to reveal the full answer")
	ErrGetQueryResult = errors.New("failed to get query result")
	ErrSessionOwner   = errors.New("session does not belong to current user")
	ErrResultNotReady = errors.New("query result is not ready")

	ErrCreateDiary  = errors.New("failed to create diary entry")
	ErrGetDiaries   = errors.New("failed to get diary entries")
	ErrDeleteDiary  = errors.New("failed to delete diary entry")
	ErrDiaryStats   = errors.New("failed to get diary stats")
	ErrReflectDiary = errors.New("failed to start diary reflection")

	ErrCreateGoal = errors.New("failed to create goal")
	ErrGetGoals   = errors.New("failed to get goals")
	ErrUpdateGoal = errors.New("failed to update goal")
	ErrDeleteGoal = errors.New("failed to delete goal")

	ErrChangePassword = errors.New("failed to change password")

	ErrUpdateScores  = errors.New("failed to update subject scores")
	ErrUpdateLevel   = errors.New("failed to update explain level")
	ErrGetUser       = errors.New("failed to get user info")
	ErrRefreshSignal = errors.New("failed to schedule profile refresh")
)
