package oauth

// OpenID 是 ID token 的標準欄位
type OpenID struct {
	Sub    string `json:"sub"`
	Iss    string `json:"iss"`
	Aud    string `json:"aud"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
	AtHash string `json:"at_hash"`
	Nonce  string `json:"nonce"`
}

// AppleIDClaims 是 Apple ID token 中用到的欄位
// NOTE: email_verified 在 Apple 可能是字串或布林值，因此不解析
type AppleIDClaims struct {
	OpenID
	Email          string `json:"email"`
	IsPrivateEmail any    `json:"is_private_email"`
}
