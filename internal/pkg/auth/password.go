package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes bcrypt 能处理的最大口令长度
const MaxPasswordBytes = 72

// ErrPasswordTooLong 口令超过 MaxPasswordBytes
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword 使用 bcrypt 生成口令哈希
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword 校验明文口令与哈希是否匹配
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
