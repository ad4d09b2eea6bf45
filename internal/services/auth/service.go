// Package auth issues and validates member sessions. The MLM core treats
// identity as an upstream concern; this service is the thin session layer
// in front of it.
package auth

import (
	"errors"
	"log"

	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(email, password string) (*models.Member, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(memberID uint) error
	ChangePassword(memberID uint, oldPassword, newPassword string) error
	GetMemberByID(memberID uint) (*models.Member, error)
	GetTokenVersion(memberID uint) (int, error)
}

type service struct {
	members repositories.MemberRepository
}

func NewService(members repositories.MemberRepository) Service {
	return &service{members: members}
}

func (s *service) Login(email, password string) (*models.Member, string, string, error) {
	member, err := s.members.GetByEmail(email)
	if err != nil {
		log.Printf("login failed: no member for %s", email)
		return nil, "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)); err != nil {
		log.Printf("login failed: wrong password for member %d", member.ID)
		return nil, "", "", errors.New("invalid credentials")
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		MemberID:     member.ID,
		Email:        member.Email,
		Role:         member.Role,
		TokenVersion: member.TokenVersion,
		Permissions:  models.GetDefaultPermissions(member.Role),
	})
	if err != nil {
		return nil, "", "", errors.New("error generating tokens")
	}
	return member, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	member, err := s.members.GetByID(claims.MemberID)
	if err != nil {
		return "", "", errors.New("member not found")
	}
	if member.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		MemberID:     member.ID,
		Email:        member.Email,
		Role:         member.Role,
		TokenVersion: member.TokenVersion,
		Permissions:  models.GetDefaultPermissions(member.Role),
	})
}

// Logout bumps the token version so every outstanding token is rejected.
func (s *service) Logout(memberID uint) error {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		return err
	}
	member.TokenVersion++
	return s.members.Update(member)
}

func (s *service) ChangePassword(memberID uint, oldPassword, newPassword string) error {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(oldPassword)); err != nil {
		return errors.New("incorrect current password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	member.Password = string(hashed)
	member.TokenVersion++
	return s.members.Update(member)
}

func (s *service) GetMemberByID(memberID uint) (*models.Member, error) {
	return s.members.GetByID(memberID)
}

func (s *service) GetTokenVersion(memberID uint) (int, error) {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		return 0, err
	}
	return member.TokenVersion, nil
}
