package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ecommerce-backend/internal/config"
	"ecommerce-backend/internal/domain/event"
	eventMocks "ecommerce-backend/internal/domain/event/mocks"
	"ecommerce-backend/internal/domain/otp"
	domainUser "ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/usecase/auth/mocks"
	appErrors "ecommerce-backend/pkg/errors"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessSecret  = "access-secret"
	refreshSecret = "refresh-secret"
)

type testEnv struct {
	svc       *Service
	store     *memStore
	notifier  *mocks.MockNotifier
	publisher *eventMocks.MockPublisher
	clock     *fakeClock
	codes     *codeSequence
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// codeSequence hands out OTP codes in order so tests know which code was sent.
type codeSequence struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (s *codeSequence) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[s.next%len(s.codes)]
	s.next++
	return code, nil
}

func newTestEnv(t *testing.T, codes ...string) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := newMemStore()
	notifier := mocks.NewMockNotifier(ctrl)
	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{
		OTP:      config.OTPConfig{ExpiryMinutes: 15},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
	tokens := utils.NewTokenIssuer(accessSecret, refreshSecret, time.Hour, 7*24*time.Hour)

	svc := NewService(
		&fakeUserRepo{store: store},
		&fakeOTPRepo{store: store},
		&fakeTxRunner{store: store},
		tokens,
		notifier,
		publisher,
		cfg,
	)

	if len(codes) == 0 {
		codes = []string{"482913"}
	}
	clock := &fakeClock{now: time.Now()}
	seq := &codeSequence{codes: codes}
	svc.now = clock.Now
	svc.generateOTP = seq.Generate

	return &testEnv{svc: svc, store: store, notifier: notifier, publisher: publisher, clock: clock, codes: seq}
}

func (e *testEnv) expectMail(to string) {
	e.notifier.EXPECT().Send(gomock.Any(), to, otpSubject, gomock.Any()).Return(nil).AnyTimes()
}

func (e *testEnv) signupAndVerify(t *testing.T, email, mobile, password string) *AuthResponse {
	t.Helper()
	code, _ := e.codes.Generate()
	e.codes.next--

	_, err := e.svc.Signup(context.Background(), &SignupRequest{Name: "Ann", Email: email, Mobile: mobile, Password: password})
	require.NoError(t, err)

	resp, err := e.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{Email: email, OTP: code})
	require.NoError(t, err)
	return resp
}

func assertKind(t *testing.T, err error, kind appErrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, appErrors.KindOf(err), "unexpected error: %v", err)
}

func TestScenarioAnn(t *testing.T) {
	env := newTestEnv(t, "482913")
	env.expectMail("ann@x.com")
	ctx := context.Background()

	resp, err := env.svc.Signup(ctx, &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", resp.Email)

	stored := env.store.userByEmail("ann@x.com")
	require.NotNil(t, stored)
	assert.False(t, stored.IsVerified)
	assert.NotEqual(t, "p1", stored.PasswordHashed)

	_, err = env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "000000"})
	assertKind(t, err, appErrors.KindUnauthorized)
	assert.ErrorIs(t, err, appErrors.ErrInvalidOTP)

	verified, err := env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "482913"})
	require.NoError(t, err)
	assert.True(t, verified.User.IsVerified)
	assert.Equal(t, "customer", verified.User.Role)
	require.NotNil(t, verified.Tokens)

	stored = env.store.userByEmail("ann@x.com")
	assert.True(t, stored.IsVerified)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, verified.Tokens.RefreshToken, *stored.RefreshToken)
	assert.Empty(t, env.store.otpsFor(domainUser.ByEmail("ann@x.com")))

	_, err = env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "482913"})
	assertKind(t, err, appErrors.KindUnauthorized)
}

func TestVerifyOTP_IssuesTokensForBothDomains(t *testing.T) {
	env := newTestEnv(t)
	env.expectMail("ann@x.com")

	resp := env.signupAndVerify(t, "ann@x.com", "+15550001", "p1")

	issuer := utils.NewTokenIssuer(accessSecret, refreshSecret, time.Hour, time.Hour)
	access, err := issuer.ParseAccess(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, access.UserID)
	assert.Equal(t, "customer", access.Role)

	refresh, err := issuer.ParseRefresh(resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refresh.UserID)
}

func TestVerifyOTP_ConcurrentRequestsVerifyOnce(t *testing.T) {
	env := newTestEnv(t, "111111")
	env.expectMail("ann@x.com")
	ctx := context.Background()

	_, err := env.svc.Signup(ctx, &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "111111"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestVerifyOTP_ExpiredCodeRejected(t *testing.T) {
	env := newTestEnv(t, "222222")
	env.expectMail("ann@x.com")
	ctx := context.Background()

	_, err := env.svc.Signup(ctx, &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	require.NoError(t, err)

	env.clock.Advance(15*time.Minute + time.Second)

	_, err = env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "222222"})
	assertKind(t, err, appErrors.KindUnauthorized)
	assert.False(t, env.store.userByEmail("ann@x.com").IsVerified)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		message string
	}{
		{"missing name", SignupRequest{Email: "a@x.com", Mobile: "+1555", Password: "p"}, msgSignupRequired},
		{"missing email", SignupRequest{Name: "A", Mobile: "+1555", Password: "p"}, msgSignupRequired},
		{"missing mobile", SignupRequest{Name: "A", Email: "a@x.com", Password: "p"}, msgSignupRequired},
		{"missing password", SignupRequest{Name: "A", Email: "a@x.com", Mobile: "+1555"}, msgSignupRequired},
		{"bad email", SignupRequest{Name: "A", Email: "not-an-email", Mobile: "+1555", Password: "p"}, "Invalid email."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := tt.req
			_, err := env.svc.Signup(context.Background(), &req)
			assertKind(t, err, appErrors.KindValidation)

			var appErr *appErrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestSignup_ResignupWhileUnverified(t *testing.T) {
	env := newTestEnv(t, "333333", "444444")
	env.expectMail("ann@x.com")
	ctx := context.Background()

	_, err := env.svc.Signup(ctx, &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "first"})
	require.NoError(t, err)
	first := env.store.userByEmail("ann@x.com")

	_, err = env.svc.Signup(ctx, &SignupRequest{Name: "Annie", Email: "ann@x.com", Mobile: "+15550002", Password: "second"})
	require.NoError(t, err)

	second := env.store.userByEmail("ann@x.com")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Annie", second.Name)
	assert.Equal(t, "+15550002", second.Mobile)
	assert.False(t, second.IsVerified)
	assert.True(t, utils.NewPasswordHasher(bcrypt.MinCost).Compare(second.PasswordHashed, "second"))

	codes := env.store.otpsFor(domainUser.ByEmail("ann@x.com"))
	require.Len(t, codes, 1)
	assert.Equal(t, "444444", codes[0].Code)

	_, err = env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "333333"})
	assertKind(t, err, appErrors.KindUnauthorized)

	_, err = env.svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ann@x.com", OTP: "444444"})
	require.NoError(t, err)

	_, err = env.svc.Signup(ctx, &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "third"})
	assertKind(t, err, appErrors.KindConflict)
	assert.ErrorIs(t, err, appErrors.ErrUserAlreadyExists)
}

func TestSignup_ConcurrentInsertIsRetryableConflict(t *testing.T) {
	env := newTestEnv(t, "555555")
	env.store.createErr = domainUser.ErrUserAlreadyExists

	_, err := env.svc.Signup(context.Background(), &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "pw"})
	assertKind(t, err, appErrors.KindConflict)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgSignupInFlight, appErr.Message)
	assert.NotEqual(t, msgUserExists, appErr.Message)
	assert.Empty(t, env.store.otpsFor(domainUser.ByEmail("ann@x.com")))
}

func TestSignup_NotificationFailureIsSwallowed(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.EXPECT().Send(gomock.Any(), "ann@x.com", otpSubject, gomock.Any()).
		Return(errors.New("smtp down"))

	resp, err := env.svc.Signup(context.Background(), &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", resp.Email)
}

func TestSignup_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t)
	env.expectMail("ann@x.com")

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Event) error {
		assert.Equal(t, event.UserSignupRequested, e.Type)
		assert.Equal(t, "ann@x.com", e.Payload["email"])
		return errors.New("broker down")
	})
	env.svc.publisher = publisher

	_, err := env.svc.Signup(context.Background(), &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	require.NoError(t, err)
}

func TestSignup_StoreFailureIsInternal(t *testing.T) {
	env := newTestEnv(t)
	env.store.failWith = errors.New("connection refused")

	_, err := env.svc.Signup(context.Background(), &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	assertKind(t, err, appErrors.KindInternal)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgInternal, appErr.Message)
}

func TestScenarioLoginRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.expectMail("ann@x.com")
	ctx := context.Background()
	env.signupAndVerify(t, "ann@x.com", "+15550001", "p1")

	_, err := env.svc.Login(ctx, &LoginRequest{Email: "ann@x.com", Password: "wrong"})
	assertKind(t, err, appErrors.KindUnauthorized)
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	t1, err := env.svc.Login(ctx, &LoginRequest{Email: "ann@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, t1.Tokens.RefreshToken, *env.store.userByEmail("ann@x.com").RefreshToken)

	refreshed, err := env.svc.RefreshAccessToken(ctx, &RefreshRequest{RefreshToken: t1.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	t2, err := env.svc.Login(ctx, &LoginRequest{Email: "+15550001", Password: "p1"})
	require.NoError(t, err)
	assert.NotEqual(t, t1.Tokens.RefreshToken, t2.Tokens.RefreshToken)

	_, err = env.svc.RefreshAccessToken(ctx, &RefreshRequest{RefreshToken: t1.Tokens.RefreshToken})
	assertKind(t, err, appErrors.KindForbidden)

	_, err = env.svc.RefreshAccessToken(ctx, &RefreshRequest{RefreshToken: t2.Tokens.RefreshToken})
	require.NoError(t, err)
}

func TestLogin_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Login(context.Background(), &LoginRequest{Email: "nobody@x.com", Password: "p"})
	assertKind(t, err, appErrors.KindNotFound)

	_, err = env.svc.Login(context.Background(), &LoginRequest{Email: "bob", Password: "p"})
	assertKind(t, err, appErrors.KindNotFound)
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgUserNotFound, appErr.Message)

	_, err = env.svc.Login(context.Background(), &LoginRequest{Email: "", Password: "p"})
	assertKind(t, err, appErrors.KindValidation)
}

func TestLogin_UnverifiedUserCanLogin(t *testing.T) {
	env := newTestEnv(t)
	env.expectMail("ann@x.com")
	ctx := context.Background()

	_, err := env.svc.Signup(ctx, &SignupRequest{Name: "Ann", Email: "ann@x.com", Mobile: "+15550001", Password: "p1"})
	require.NoError(t, err)

	resp, err := env.svc.Login(ctx, &LoginRequest{Email: "ann@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.False(t, resp.User.IsVerified)
}

func TestRefresh_RejectedBeforeStoreLookup(t *testing.T) {
	env := newTestEnv(t)
	env.expectMail("ann@x.com")
	resp := env.signupAndVerify(t, "ann@x.com", "+15550001", "p1")

	past := utils.NewTokenIssuer(accessSecret, refreshSecret, time.Hour, 7*24*time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) })
	expired, err := past.IssueRefresh(resp.User.ID, "ann@x.com")
	require.NoError(t, err)

	forged, err := utils.NewTokenIssuer("x", "other-secret", time.Hour, time.Hour).IssueRefresh(resp.User.ID, "ann@x.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", forged},
		{"access token", resp.Tokens.AccessToken},
		{"tampered", resp.Tokens.RefreshToken + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.store.refreshLookups
			_, err := env.svc.RefreshAccessToken(context.Background(), &RefreshRequest{RefreshToken: tt.token})
			assertKind(t, err, appErrors.KindUnauthorized)
			assert.Equal(t, before, env.store.refreshLookups)
		})
	}

	_, err = env.svc.RefreshAccessToken(context.Background(), &RefreshRequest{})
	assertKind(t, err, appErrors.KindValidation)
}

func TestRefresh_UnknownUserIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	token, err := utils.NewTokenIssuer(accessSecret, refreshSecret, time.Hour, time.Hour).IssueRefresh(uuid.New(), "ghost@x.com")
	require.NoError(t, err)

	_, err = env.svc.RefreshAccessToken(context.Background(), &RefreshRequest{RefreshToken: token})
	assertKind(t, err, appErrors.KindForbidden)
	assert.Equal(t, 1, env.store.refreshLookups)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t, "555555", "666666", "777777")
	env.expectMail("ann@x.com")
	ctx := context.Background()
	env.signupAndVerify(t, "ann@x.com", "+15550001", "old-password")

	_, err := env.svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "ann@x.com"})
	require.NoError(t, err)
	_, err = env.svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "ann@x.com"})
	require.NoError(t, err)
	require.Len(t, env.store.otpsFor(domainUser.ByEmail("ann@x.com")), 2)

	err = env.svc.ResetPassword(ctx, &ResetPasswordRequest{Email: "ann@x.com", OTP: "123123", NewPassword: "new-password"})
	assertKind(t, err, appErrors.KindUnauthorized)

	err = env.svc.ResetPassword(ctx, &ResetPasswordRequest{Email: "ann@x.com", OTP: "777777", NewPassword: "new-password"})
	require.NoError(t, err)

	assert.Empty(t, env.store.otpsFor(domainUser.ByEmail("ann@x.com")))

	_, err = env.svc.Login(ctx, &LoginRequest{Email: "ann@x.com", Password: "old-password"})
	assertKind(t, err, appErrors.KindUnauthorized)
	_, err = env.svc.Login(ctx, &LoginRequest{Email: "ann@x.com", Password: "new-password"})
	require.NoError(t, err)
}

func TestResetPassword_ExpiredOTP(t *testing.T) {
	env := newTestEnv(t, "555555", "666666")
	env.expectMail("ann@x.com")
	ctx := context.Background()
	env.signupAndVerify(t, "ann@x.com", "+15550001", "old-password")

	_, err := env.svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "ann@x.com"})
	require.NoError(t, err)

	env.clock.Advance(16 * time.Minute)

	err = env.svc.ResetPassword(ctx, &ResetPasswordRequest{Email: "ann@x.com", OTP: "666666", NewPassword: "new-password"})
	assertKind(t, err, appErrors.KindUnauthorized)

	_, err = env.svc.Login(ctx, &LoginRequest{Email: "ann@x.com", Password: "old-password"})
	require.NoError(t, err)
}

func TestForgotPassword_MobileOnly(t *testing.T) {
	env := newTestEnv(t, "555555", "888888")
	env.expectMail("ann@x.com")
	ctx := context.Background()
	env.signupAndVerify(t, "ann@x.com", "+15550001", "old-password")

	ctrl := gomock.NewController(t)
	silent := mocks.NewMockNotifier(ctrl)
	env.svc.notifier = silent

	resp, err := env.svc.ForgotPassword(ctx, &ForgotPasswordRequest{Mobile: "+15550001"})
	require.NoError(t, err)
	assert.Empty(t, resp.Email)

	codes := env.store.otpsFor(domainUser.ByMobile("+15550001"))
	require.Len(t, codes, 1)
	assert.Equal(t, otp.PurposePasswordReset, codes[0].Purpose)

	err = env.svc.ResetPassword(ctx, &ResetPasswordRequest{Mobile: "+15550001", OTP: "888888", NewPassword: "new-password"})
	require.NoError(t, err)
}

func TestForgotPassword_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{})
	assertKind(t, err, appErrors.KindValidation)

	_, err = env.svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "ghost@x.com"})
	assertKind(t, err, appErrors.KindNotFound)

	err = env.svc.ResetPassword(context.Background(), &ResetPasswordRequest{OTP: "123456", NewPassword: "x"})
	assertKind(t, err, appErrors.KindValidation)

	err = env.svc.ResetPassword(context.Background(), &ResetPasswordRequest{Email: "ann@x.com", NewPassword: "x"})
	assertKind(t, err, appErrors.KindValidation)
}

func TestCleanupExpiredOTPs(t *testing.T) {
	env := newTestEnv(t)
	now := env.clock.Now()

	env.store.otps = []*otp.Record{
		{Email: "old@x.com", Code: "111111", Purpose: otp.PurposeSignup, ExpiresAt: now.Add(-48 * time.Hour)},
		{Email: "recent@x.com", Code: "222222", Purpose: otp.PurposeSignup, ExpiresAt: now.Add(-time.Hour)},
		{Email: "live@x.com", Code: "333333", Purpose: otp.PurposePasswordReset, ExpiresAt: now.Add(time.Hour)},
	}

	env.svc.cleanupExpiredOTPs(context.Background(), 24*time.Hour)

	require.Len(t, env.store.otps, 2)
	assert.Equal(t, "recent@x.com", env.store.otps[0].Email)
	assert.Equal(t, "live@x.com", env.store.otps[1].Email)
}
