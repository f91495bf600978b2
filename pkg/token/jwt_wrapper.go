package token

// 這個變數會在測試時被覆蓋
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper 讓 usecase test mock 使用這個包裝函數
func GenerateJWTWrapper(userID, userType, issuer string) (string, error) {
	return GenerateJWTFunc(userID, userType, issuer)
}

// ParseJWTWrapper 讓 usecase test mock 使用這個包裝函數
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
