package service

import "errors"

// Классификация ошибок сервисного слоя. Хендлеры маппят их в HTTP-статусы,
// всё неклассифицированное уходит наружу как 500 с generic-текстом.
var (
	// ErrValidation — запрос некорректен, до хранилища не дошли.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound — пост, пользователь или блоб отсутствует.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrFileTooLarge — файл превышает настроенный лимит.
	ErrFileTooLarge = errors.New("file exceeds size limit")
)
