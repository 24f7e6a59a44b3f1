package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

type UserUC struct {
	Users domain.UserRepo
}

func (uc *UserUC) Register(ctx context.Context, name, email, phone, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, errors.New("nome obrigatório")
	}
	if !emailRe.MatchString(email) {
		return nil, errors.New("e-mail inválido")
	}
	if len(password) < 6 {
		return nil, errors.New("senha deve ter pelo menos 6 caracteres")
	}

	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(hash),
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *UserUC) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// UpdateProfile altera nome e telefone do próprio usuário. Campo em branco
// mantém o valor atual; e-mail e senha têm fluxos próprios.
func (uc *UserUC) UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone string) (*domain.User, error) {
	u, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		u.Phone = phone
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindOrCreateByEmail atende o login social: cria a conta na primeira
// entrada com senha placeholder, igual ao fluxo de identificação.
func (uc *UserUC) FindOrCreateByEmail(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := uc.Users.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if name == "" && strings.Contains(email, "@") {
		name = email[:strings.Index(email, "@")]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u = &domain.User{ID: uuid.New(), Name: name, Email: email, Password: string(hash)}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
