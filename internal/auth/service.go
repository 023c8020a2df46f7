package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/approval"
	"github.com/mentora-learn/mentora/internal/config"
	"github.com/mentora-learn/mentora/internal/devicetrust"
	"github.com/mentora-learn/mentora/internal/otp"
)

// Login outcome statuses. OTPRequired means a code was emailed and the client
// must call VerifyOTP; the other two are routing decisions after the approval
// check.
const (
	StatusOTPRequired     = "otp_required"
	StatusGranted         = "granted"
	StatusPendingApproval = "pending_approval"
)

// Result is the outcome of a sign-up, login or OTP verification.
type Result struct {
	Status   string
	Account  account.Account
	Tokens   TokenPair
	DeviceID string
}

// Service sequences credential check, device trust, OTP and the approval gate.
type Service struct {
	cfg      config.Config
	accounts *account.Service
	repo     account.Repository
	otp      *otp.Service
	trust    devicetrust.TrustStore
	gate     *approval.Gate
	logger   *slog.Logger
}

// NewService wires the auth orchestrator.
func NewService(cfg config.Config, accounts *account.Service, repo account.Repository,
	otpSvc *otp.Service, trust devicetrust.TrustStore, gate *approval.Gate, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, accounts: accounts, repo: repo, otp: otpSvc, trust: trust, gate: gate, logger: logger}
}

// SignUpInput carries the sign-up form fields.
type SignUpInput struct {
	Email    string
	Password string
	Profile  account.Profile
	DeviceID string
}

// SignUp creates the account (approval flag per the active policy) and then
// continues into the same post-credential flow as a login, so an untrusted
// device is challenged for a code right away.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Result, error) {
	acc, err := s.accounts.SignUp(ctx, account.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		Profile:  in.Profile,
		Approved: s.gate.ApproveOnSignUp(),
	})
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("account created", "account_id", acc.ID, "approved", acc.Approved)

	return s.afterCredentialCheck(ctx, acc, in.DeviceID)
}

// Login verifies the password and decides whether an OTP challenge is needed.
func (s *Service) Login(ctx context.Context, email, password, deviceID string) (Result, error) {
	acc, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return Result{}, err
	}
	return s.afterCredentialCheck(ctx, acc, deviceID)
}

func (s *Service) afterCredentialCheck(ctx context.Context, acc account.Account, deviceID string) (Result, error) {
	trusted := false
	if deviceID != "" {
		var err error
		trusted, err = s.trust.Trusted(ctx, deviceID, acc.Email)
		if err != nil {
			s.logger.Warn("device trust lookup failed", "error", err)
		}
	}

	if trusted {
		s.logger.Info("otp skipped for trusted device", "account_id", acc.ID)
		return s.establishSession(ctx, acc, deviceID)
	}

	if err := s.otp.Issue(ctx, acc.Email); err != nil {
		return Result{}, err
	}
	return Result{Status: StatusOTPRequired, Account: acc, DeviceID: deviceID}, nil
}

// VerifyOTP checks the emailed code. A challenge record only exists within
// the resend window of a successful credential check, so a valid code stands
// in for the password here. Remember-device opt-in is applied before the
// approval check runs.
func (s *Service) VerifyOTP(ctx context.Context, email, code, deviceID string, remember bool) (Result, error) {
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return Result{}, err
	}

	acc, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return Result{}, err
	}

	if remember {
		if deviceID == "" {
			deviceID = uuid.NewString()
		}
		if err := s.trust.Trust(ctx, deviceID, acc.Email); err != nil {
			s.logger.Warn("remember device failed", "error", err)
		}
	}

	return s.establishSession(ctx, acc, deviceID)
}

// ResendOTP reissues the code while a verification is pending.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	return s.otp.Reissue(ctx, email)
}

func (s *Service) establishSession(ctx context.Context, acc account.Account, deviceID string) (Result, error) {
	pair, err := s.issueTokens(acc)
	if err != nil {
		return Result{}, err
	}

	status := StatusGranted
	if !s.gate.IsApproved(acc) {
		status = StatusPendingApproval
	}
	return Result{Status: status, Account: acc, Tokens: pair, DeviceID: deviceID}, nil
}

func (s *Service) issueTokens(acc account.Account) (TokenPair, error) {
	access, accessExp, err := signToken(acc, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := signToken(acc, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(accessExp).Seconds()),
	}, nil
}

// Refresh verifies the refresh token and returns a new access token if the
// token version is still current.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	claims, err := ParseAndVerify(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", 0, errors.New("invalid refresh token")
	}
	sub, _ := claims["sub"].(string)
	verFloat, _ := claims["ver"].(float64)

	acc, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		return "", 0, errors.New("account not found")
	}
	if acc.TokenVersion != int(verFloat) {
		return "", 0, errors.New("token version invalidated")
	}

	access, _, err := signToken(acc, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return access, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// Logout bumps the token version so older tokens become invalid.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	acc, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTokenVersion(ctx, acc.ID, acc.TokenVersion+1)
}

// Status re-runs the approval check, backing the pending screen's manual
// refresh action.
func (s *Service) Status(ctx context.Context, accountID string) (string, error) {
	acc, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if s.gate.IsApproved(acc) {
		return StatusGranted, nil
	}
	return StatusPendingApproval, nil
}

// ForgetDevice revokes the remember-device opt-in for the account.
func (s *Service) ForgetDevice(ctx context.Context, deviceID, email string) error {
	return s.trust.Revoke(ctx, deviceID, email)
}
