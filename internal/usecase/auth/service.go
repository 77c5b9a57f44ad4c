package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-backend/internal/config"
	"ecommerce-backend/internal/domain/event"
	"ecommerce-backend/internal/domain/otp"
	domainUser "ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/logger"
	userUC "ecommerce-backend/internal/usecase/user"
	appErrors "ecommerce-backend/pkg/errors"
	"ecommerce-backend/pkg/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgSignupRequired = "Name, email, mobile and password are required."
	msgVerifyRequired = "Email and OTP are required."
	msgLoginRequired  = "Email and password are required."
	msgRefreshMissing = "Refresh token is required."
	msgIdentifierNeed = "Email or mobile is required."
	msgResetRequired  = "All fields are required."

	msgUserExists      = "User already exists. Please login."
	msgSignupInFlight  = "A signup for this email is already in progress. Please try again."
	msgUserNotFound    = "User not found."
	msgInvalidOTP      = "Invalid or expired OTP."
	msgInvalidPassword = "Invalid password."
	msgInvalidRefresh  = "Invalid or expired refresh token."
	msgInternal        = "Internal server error"
)

// Service implements signup, verification, login, refresh and password reset.
type Service struct {
	userRepo  domainUser.Repository
	otpRepo   otp.Repository
	txRunner  TxRunner
	tokens    *utils.TokenIssuer
	hasher    *utils.PasswordHasher
	notifier  Notifier
	publisher event.Publisher
	otpTTL    time.Duration

	now         func() time.Time
	generateOTP func() (string, error)
}

func NewService(
	userRepo domainUser.Repository,
	otpRepo otp.Repository,
	txRunner TxRunner,
	tokens *utils.TokenIssuer,
	notifier Notifier,
	publisher event.Publisher,
	cfg *config.Config,
) *Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	otpTTL := cfg.OTPTTL()
	if otpTTL <= 0 {
		otpTTL = 15 * time.Minute
	}

	return &Service{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		txRunner:    txRunner,
		tokens:      tokens,
		hasher:      utils.NewPasswordHasher(cfg.Security.BcryptCost),
		notifier:    notifier,
		publisher:   publisher,
		otpTTL:      otpTTL,
		now:         time.Now,
		generateOTP: utils.GenerateOTP,
	}
}

func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error) {
	log := logger.FromContext(ctx)

	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeEmail(req.Email)
	req.Mobile = utils.SanitizePhone(req.Mobile)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, msgSignupRequired)
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.internal(ctx, "signup", fmt.Errorf("failed to hash password: %w", err))
	}

	code, err := s.generateOTP()
	if err != nil {
		return nil, s.internal(ctx, "signup", fmt.Errorf("failed to generate otp: %w", err))
	}

	err = s.txRunner.Run(ctx, func(users domainUser.Repository, otps otp.Repository) error {
		existing, err := users.GetByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
			return fmt.Errorf("failed to check existing user: %w", err)
		}

		switch {
		case existing != nil && existing.IsVerified:
			log.Warn("Signup attempt for verified account",
				zap.String("email", req.Email),
				zap.String("event", "signup_failed_already_verified"),
			)
			return appErrors.Conflict(msgUserExists, appErrors.ErrUserAlreadyExists)
		case existing != nil:
			existing.Name = req.Name
			existing.Mobile = req.Mobile
			existing.PasswordHashed = hashedPassword
			if err := users.ResetRegistration(ctx, existing); err != nil {
				return err
			}
		default:
			u := &domainUser.User{
				Name:           req.Name,
				Email:          req.Email,
				Mobile:         req.Mobile,
				PasswordHashed: hashedPassword,
				Role:           domainUser.RoleCustomer,
				IsVerified:     false,
			}
			if err := users.Create(ctx, u); err != nil {
				// A concurrent signup inserted the row after our lookup; its
				// account is still unverified, so the caller should retry.
				if errors.Is(err, domainUser.ErrUserAlreadyExists) {
					log.Warn("Concurrent signup for email",
						zap.String("email", req.Email),
						zap.String("event", "signup_race_lost"),
					)
					return appErrors.Conflict(msgSignupInFlight, appErrors.ErrUserAlreadyExists)
				}
				return err
			}
		}

		return otps.UpsertSignup(ctx, &otp.Record{
			Email:     req.Email,
			Mobile:    req.Mobile,
			Code:      code,
			Purpose:   otp.PurposeSignup,
			ExpiresAt: s.now().Add(s.otpTTL),
		})
	})
	if err != nil {
		return nil, s.internal(ctx, "signup", err)
	}

	s.sendOTP(ctx, req.Email, code)
	s.publish(ctx, event.New(event.UserSignupRequested, map[string]interface{}{
		"email": req.Email,
	}))

	log.Info("Signup OTP issued",
		zap.String("email", req.Email),
		zap.String("event", "signup_otp_issued"),
	)

	return &SignupResponse{Email: req.Email}, nil
}

func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*AuthResponse, error) {
	log := logger.FromContext(ctx)

	req.Email = utils.SanitizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, msgVerifyRequired)
	}

	var (
		verified *domainUser.User
		pair     *utils.TokenPair
	)

	err := s.txRunner.Run(ctx, func(users domainUser.Repository, otps otp.Repository) error {
		byEmail := domainUser.ByEmail(req.Email)

		if _, err := otps.FindValid(ctx, byEmail, req.OTP, otp.PurposeSignup, s.now()); err != nil {
			if errors.Is(err, otp.ErrOTPNotFound) {
				log.Warn("OTP verification failed",
					zap.String("email", req.Email),
					zap.String("event", "otp_verification_failed"),
				)
				return appErrors.Unauthorized(msgInvalidOTP, appErrors.ErrInvalidOTP)
			}
			return err
		}

		u, err := users.GetByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				return appErrors.NotFound(msgUserNotFound, appErrors.ErrUserNotFound)
			}
			return err
		}

		if err := users.MarkVerified(ctx, u.ID); err != nil {
			return err
		}
		if _, err := otps.DeleteByIdentifier(ctx, byEmail); err != nil {
			return err
		}

		pair, err = s.tokens.IssuePair(u.ID, u.Email, string(u.Role))
		if err != nil {
			return err
		}
		if err := users.SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
			return err
		}

		u.IsVerified = true
		u.RefreshToken = &pair.RefreshToken
		verified = u
		return nil
	})
	if err != nil {
		return nil, s.internal(ctx, "verify_otp", err)
	}

	s.publish(ctx, event.New(event.UserVerified, map[string]interface{}{
		"user_id": verified.ID.String(),
		"email":   verified.Email,
	}))

	log.Info("Account verified",
		zap.String("user_id", verified.ID.String()),
		zap.String("email", verified.Email),
		zap.String("event", "account_verified"),
	)

	return &AuthResponse{User: userUC.ToUserResponse(verified), Tokens: pair}, nil
}

// Login accepts an email address or a mobile number as identifier.
// Verification status is not checked.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	log := logger.FromContext(ctx)

	req.Email = utils.SanitizeIdentifier(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, msgLoginRequired)
	}

	u, err := s.userRepo.GetByLogin(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			log.Warn("Login attempt for unknown identifier",
				zap.String("identifier", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.NotFound(msgUserNotFound, appErrors.ErrUserNotFound)
		}
		return nil, s.internal(ctx, "login", err)
	}

	if !s.hasher.Compare(u.PasswordHashed, req.Password) {
		log.Warn("Login attempt with invalid password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.Unauthorized(msgInvalidPassword, appErrors.ErrInvalidCredentials)
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		return nil, s.internal(ctx, "login", err)
	}
	u.RefreshToken = &pair.RefreshToken

	log.Info("User logged in successfully",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{User: userUC.ToUserResponse(u), Tokens: pair}, nil
}

// RefreshAccessToken issues a new access token while refreshToken is the one stored for its user.
// Signature and expiry are checked before the store is consulted.
func (s *Service) RefreshAccessToken(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error) {
	log := logger.FromContext(ctx)

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, msgRefreshMissing)
	}

	claims, err := s.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		log.Warn("Refresh token rejected",
			zap.Bool("expired", utils.IsExpiredToken(err)),
			zap.String("event", "refresh_token_invalid"),
		)
		return nil, appErrors.Unauthorized(msgInvalidRefresh, err)
	}

	u, err := s.userRepo.GetByRefreshToken(ctx, claims.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			log.Warn("Refresh token no longer current",
				zap.String("user_id", claims.UserID.String()),
				zap.String("event", "refresh_token_revoked"),
			)
			return nil, appErrors.Forbidden(msgInvalidRefresh, appErrors.ErrInvalidRefresh)
		}
		return nil, s.internal(ctx, "refresh", err)
	}

	accessToken, expiresAt, err := s.tokens.IssueAccess(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, s.internal(ctx, "refresh", err)
	}

	log.Debug("Access token refreshed",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "access_token_refreshed"),
	)

	return &RefreshResponse{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	log := logger.FromContext(ctx)

	req.Email = utils.SanitizeEmail(req.Email)
	req.Mobile = utils.SanitizePhone(req.Mobile)
	id, ok := domainUser.NewIdentifier(req.Email, req.Mobile)
	if !ok {
		return nil, appErrors.Validation(msgIdentifierNeed, appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, msgIdentifierNeed)
	}

	u, err := s.userRepo.GetByIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			log.Warn("Password reset requested for unknown user",
				zap.Stringer("identifier", id),
				zap.String("event", "password_reset_unknown_user"),
			)
			return nil, appErrors.NotFound(msgUserNotFound, appErrors.ErrUserNotFound)
		}
		return nil, s.internal(ctx, "forgot_password", err)
	}

	code, err := s.generateOTP()
	if err != nil {
		return nil, s.internal(ctx, "forgot_password", fmt.Errorf("failed to generate otp: %w", err))
	}

	record := &otp.Record{
		Email:     id.Email(),
		Mobile:    id.Mobile(),
		Code:      code,
		Purpose:   otp.PurposePasswordReset,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return nil, s.internal(ctx, "forgot_password", err)
	}

	if id.HasEmail() {
		s.sendOTP(ctx, u.Email, code)
	}

	log.Info("Password reset OTP issued",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_reset_otp_issued"),
	)

	return &ForgotPasswordResponse{Email: id.Email()}, nil
}

// ResetPassword replaces the password when otp is a valid reset code for the identifier,
// then purges every code held for that identifier. No tokens are issued.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	log := logger.FromContext(ctx)

	req.Email = utils.SanitizeEmail(req.Email)
	req.Mobile = utils.SanitizePhone(req.Mobile)
	req.OTP = strings.TrimSpace(req.OTP)
	id, ok := domainUser.NewIdentifier(req.Email, req.Mobile)
	if !ok {
		return appErrors.Validation(msgResetRequired, appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return validationError(err, msgResetRequired)
	}

	hashedPassword, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return s.internal(ctx, "reset_password", fmt.Errorf("failed to hash password: %w", err))
	}

	var userID string
	err = s.txRunner.Run(ctx, func(users domainUser.Repository, otps otp.Repository) error {
		if _, err := otps.FindValid(ctx, id, req.OTP, otp.PurposePasswordReset, s.now()); err != nil {
			if errors.Is(err, otp.ErrOTPNotFound) {
				log.Warn("Password reset with invalid OTP",
					zap.Stringer("identifier", id),
					zap.String("event", "password_reset_invalid_otp"),
				)
				return appErrors.Unauthorized(msgInvalidOTP, appErrors.ErrInvalidOTP)
			}
			return err
		}

		u, err := users.GetByIdentifier(ctx, id)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				return appErrors.NotFound(msgUserNotFound, appErrors.ErrUserNotFound)
			}
			return err
		}

		if err := users.UpdatePassword(ctx, u.ID, hashedPassword); err != nil {
			return err
		}
		if _, err := otps.DeleteByIdentifier(ctx, id); err != nil {
			return err
		}

		userID = u.ID.String()
		return nil
	})
	if err != nil {
		return s.internal(ctx, "reset_password", err)
	}

	s.publish(ctx, event.New(event.UserPasswordReset, map[string]interface{}{
		"user_id": userID,
	}))

	log.Info("Password reset",
		zap.String("user_id", userID),
		zap.String("event", "password_reset"),
	)

	return nil
}

func (s *Service) sendOTP(ctx context.Context, to, code string) {
	if err := s.notifier.Send(ctx, to, otpSubject, otpBody(code, s.otpTTL)); err != nil {
		logger.FromContext(ctx).Error("Failed to send OTP email",
			zap.String("to", to),
			zap.Error(err),
			zap.String("event", "otp_email_failed"),
		)
	}
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event",
			zap.String("type", string(e.Type)),
			zap.Error(err),
			zap.String("event", "event_publish_failed"),
		)
	}
}

// internal passes classified errors through and turns anything else into an internal error.
func (s *Service) internal(ctx context.Context, operation string, err error) error {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	logger.FromContext(ctx).Error("Auth operation failed",
		zap.String("operation", operation),
		zap.Error(err),
		zap.String("event", "auth_internal_error"),
	)
	return appErrors.Internal(msgInternal, err)
}

// validationError reports requiredMsg when a required field is missing, otherwise names the bad field.
func validationError(err error, requiredMsg string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return appErrors.Validation(requiredMsg, err)
			}
		}
		if len(verrs) > 0 {
			return appErrors.Validation(fmt.Sprintf("Invalid %s.", strings.ToLower(verrs[0].Field())), err)
		}
	}
	return appErrors.Validation(requiredMsg, err)
}
