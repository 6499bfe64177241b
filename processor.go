package jwt

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josecore/jwt/internal/blacklist"
	"github.com/josecore/jwt/internal/encoding"
	"github.com/josecore/jwt/internal/security"
)

// Processor is a managed issuer and verifier. It owns validated key
// material, stamps registered claims on issue, pins the verification
// algorithm to its configured method, and tracks revocations. A Processor
// is safe for concurrent use; Close releases its resources and zeroes
// secret copies.
type Processor struct {
	method     SigningMethod
	secret     *security.SecureBytes
	privateKey *security.SecureBytes
	publicKey  string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration

	revocations *blacklist.Manager
	limiter     *RateLimiter

	mu     sync.RWMutex
	closed bool
}

// New creates a Processor from cfg with the default in-memory revocation
// store.
func New(cfg Config) (*Processor, error) {
	return NewWithBlacklist(cfg, DefaultBlacklistConfig())
}

// NewWithBlacklist creates a Processor with an explicit revocation
// configuration (e.g. a redis-backed store).
func NewWithBlacklist(cfg Config, blacklistCfg BlacklistConfig) (*Processor, error) {
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = HS256
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultConfig().Issuer
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = DefaultConfig().AccessTokenTTL
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = DefaultConfig().RefreshTokenTTL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := blacklist.NewStore(blacklist.Config{
		CleanupInterval:   blacklistCfg.CleanupInterval,
		MaxSize:           blacklistCfg.MaxSize,
		EnableAutoCleanup: blacklistCfg.EnableAutoCleanup,
		Redis:             blacklistCfg.Redis,
		RedisKeyPrefix:    blacklistCfg.RedisKeyPrefix,
	})
	manager := blacklist.NewManager(store, blacklist.Config{
		CleanupInterval:   blacklistCfg.CleanupInterval,
		EnableAutoCleanup: blacklistCfg.EnableAutoCleanup,
	})

	p := &Processor{
		method:      cfg.SigningMethod,
		issuer:      cfg.Issuer,
		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
		leeway:      cfg.Leeway,
		revocations: manager,
	}

	if isSymmetric(cfg.SigningMethod) {
		p.secret = security.NewSecureBytes([]byte(cfg.SecretKey))
	} else {
		if cfg.PrivateKeyPEM != "" {
			p.privateKey = security.NewSecureBytes([]byte(cfg.PrivateKeyPEM))
		}
		p.publicKey = cfg.PublicKeyPEM
	}

	if cfg.EnableRateLimit {
		p.limiter = NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitWindow)
	}

	runtime.SetFinalizer(p, (*Processor).finalize)
	return p, nil
}

// Issue signs claims into an access token, stamping iat, exp, iss, and a
// fresh jti for any of those fields the caller left unset.
func (p *Processor) Issue(claims Claims) (string, error) {
	return p.IssueWithContext(context.Background(), claims)
}

// IssueWithContext is Issue with early cancellation.
func (p *Processor) IssueWithContext(ctx context.Context, claims Claims) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrProcessorClosed
	}

	return p.issue(claims, p.accessTTL)
}

// IssueRefresh signs claims into a refresh token using the refresh TTL.
func (p *Processor) IssueRefresh(claims Claims) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrProcessorClosed
	}

	return p.issue(claims, p.refreshTTL)
}

// Verify decodes token with the processor's key, pinned to its configured
// algorithm, then checks expiry, not-before, issuer, and revocation. It
// returns ErrInvalidToken for any verification or policy failure and
// ErrTokenRevoked for revoked tokens.
func (p *Processor) Verify(token string) (*Claims, error) {
	return p.VerifyWithContext(context.Background(), token)
}

// VerifyWithContext is Verify with early cancellation.
func (p *Processor) VerifyWithContext(ctx context.Context, token string) (*Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrProcessorClosed
	}

	claims, err := p.verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := p.revocations.IsRevoked(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("jwt: revocation check failed: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh verifies a refresh token and issues a fresh access token carrying
// the same claims with new timestamps and a new jti.
func (p *Processor) Refresh(refreshToken string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrProcessorClosed
	}

	claims, err := p.verify(refreshToken)
	if err != nil {
		return "", err
	}
	revoked, err := p.revocations.IsRevoked(claims.ID)
	if err != nil {
		return "", fmt.Errorf("jwt: revocation check failed: %w", err)
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	next := *claims
	next.IssuedAt = NumericDate{}
	next.ExpiresAt = NumericDate{}
	next.NotBefore = NumericDate{}
	next.ID = ""

	return p.issue(next, p.accessTTL)
}

// Revoke blacklists token by its jti until the token's own expiry. The
// token is not verified first: revocation of a forged token is harmless,
// and callers often revoke tokens they have already verified.
func (p *Processor) Revoke(token string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProcessorClosed
	}

	reg, err := peekRegisteredClaims(token)
	if err != nil {
		return ErrInvalidToken
	}
	if reg.ID == "" {
		return ErrTokenMissingID
	}

	expiresAt := reg.ExpiresAt.Time
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	return p.revocations.Revoke(reg.ID, expiresAt)
}

// RevokeID blacklists a token ID directly until expiresAt.
func (p *Processor) RevokeID(tokenID string, expiresAt time.Time) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProcessorClosed
	}

	return p.revocations.Revoke(tokenID, expiresAt)
}

// IsRevoked reports whether token's jti is currently blacklisted.
func (p *Processor) IsRevoked(token string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false, ErrProcessorClosed
	}

	reg, err := peekRegisteredClaims(token)
	if err != nil {
		return false, ErrInvalidToken
	}
	if reg.ID == "" {
		return false, ErrTokenMissingID
	}

	return p.revocations.IsRevoked(reg.ID)
}

// Close shuts the processor down, closing the revocation store and limiter
// and zeroing key copies. Close is idempotent.
func (p *Processor) Close() error {
	return p.CloseWithContext(context.Background())
}

// CloseWithContext bounds the revocation-store shutdown with ctx.
func (p *Processor) CloseWithContext(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var closeErr error
	done := make(chan error, 1)
	go func() { done <- p.revocations.Close() }()
	select {
	case err := <-done:
		closeErr = err
	case <-ctx.Done():
		closeErr = fmt.Errorf("jwt: revocation store close timed out: %w", ctx.Err())
	}

	if p.secret != nil {
		p.secret.Destroy()
		p.secret = nil
	}
	if p.privateKey != nil {
		p.privateKey.Destroy()
		p.privateKey = nil
	}
	if p.limiter != nil {
		p.limiter.Close()
		p.limiter = nil
	}

	runtime.SetFinalizer(p, nil)
	return closeErr
}

// IsClosed reports whether Close has run.
func (p *Processor) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Processor) finalize() {
	if !p.IsClosed() {
		_ = p.Close()
	}
}

// issue stamps and signs claims. Callers hold at least the read lock.
func (p *Processor) issue(claims Claims, ttl time.Duration) (string, error) {
	if err := validateClaims(&claims); err != nil {
		return "", err
	}

	if p.limiter != nil && !p.limiter.Allow("issue:"+claims.Subject) {
		return "", ErrRateLimitExceeded
	}

	now := time.Now()
	if claims.IssuedAt.IsZero() {
		claims.IssuedAt = NewNumericDate(now)
	}
	if claims.ExpiresAt.IsZero() {
		claims.ExpiresAt = NewNumericDate(now.Add(ttl))
	}
	if claims.Issuer == "" {
		claims.Issuer = p.issuer
	}
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	token, err := Encode(&claims, p.signingKey(), string(p.method))
	if err != nil {
		return "", fmt.Errorf("jwt: failed to issue token: %w", err)
	}
	return token, nil
}

// verify runs the pipeline and the registered-claim checks but not the
// revocation lookup. Callers hold at least the read lock.
func (p *Processor) verify(token string) (*Claims, error) {
	var claims Claims
	if err := decodeToken(token, p.verificationKey(), []string{string(p.method)}, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	now := time.Now()
	if !claims.ExpiresAt.IsZero() && now.After(claims.ExpiresAt.Add(p.leeway)) {
		return nil, ErrInvalidToken
	}
	if !claims.NotBefore.IsZero() && now.Before(claims.NotBefore.Add(-p.leeway)) {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

func (p *Processor) signingKey() string {
	if p.secret != nil {
		return p.secret.String()
	}
	if p.privateKey != nil {
		return p.privateKey.String()
	}
	return ""
}

func (p *Processor) verificationKey() string {
	if p.secret != nil {
		return p.secret.String()
	}
	return p.publicKey
}

// peekRegisteredClaims reads the registered claims out of the payload
// segment without verifying the token. Only revocation bookkeeping uses it.
func peekRegisteredClaims(token string) (*RegisteredClaims, error) {
	if token == "" || len(token) > maxTokenLength {
		return nil, ErrMalformedToken
	}
	_, payloadSeg, _, ok := splitToken(token)
	if !ok {
		return nil, ErrMalformedToken
	}

	var reg RegisteredClaims
	if err := encoding.DecodeJSON(payloadSeg, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}
