package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	CompanyKeyPrefix   = "company:%d"
	RevokedTokenPrefix = "blacklist:%s"
	AdminStatsKey      = "admin:stats"
)

const (
	UserTTL       = 5 * time.Minute
	CompanyTTL    = 10 * time.Minute
	AdminStatsTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CompanyKey(companyID uint) string {
	return fmt.Sprintf(CompanyKeyPrefix, companyID)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCompany(ctx context.Context, companyID uint) {
	Invalidate(ctx, CompanyKey(companyID))
}

func InvalidateAdminStats(ctx context.Context) {
	Invalidate(ctx, AdminStatsKey)
}

// RevokeToken blacklists a token id until its natural expiry.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return client.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was blacklisted. Without Redis nothing is revoked.
func IsTokenRevoked(ctx context.Context, jti string) bool {
	if client == nil || jti == "" {
		return false
	}
	n, err := client.Exists(ctx, RevokedTokenKey(jti)).Result()
	return err == nil && n > 0
}
