package jwt

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	authjwt "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   time.Minute,
		RefreshTokenTTL:  time.Hour,
		Issuer:           "test",
		Audience:         "test",
	}
}

var testUser = model.User{ID: 7, Name: "Ana", Email: "ana@example.com", RoleID: model.AdminRoleID}

func TestJWTUtil_GenerateValidate(t *testing.T) {
	util, err := NewJWTUtil(testConfig())
	require.NoError(t, err)

	token, exp, jti, err := util.GenerateAccessToken(testUser)
	require.NoError(t, err)
	require.False(t, exp.IsZero())
	require.NotEmpty(t, jti)

	claims, err := util.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, strconv.FormatInt(testUser.ID, 10), claims.Subject)
	require.Equal(t, jti, claims.ID)
	require.Equal(t, testUser.Email, claims.Email)
	require.Equal(t, []string{GroupAdmin}, claims.Groups)
	require.Equal(t, authjwt.UseAccess, claims.TokenUse)
}

func TestJWTUtil_NewRejectsBadSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.JWTRefreshSecret = cfg.JWTAccessSecret
	_, err := NewJWTUtil(cfg)
	require.True(t, customErrors.IsInvalidArgument(err))

	cfg.JWTAccessSecret = ""
	_, err = NewJWTUtil(cfg)
	require.Error(t, err)
}

func TestJWTUtil_ValidateErrors(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())

	_, err := util.ValidateAccessToken("bad")
	require.True(t, customErrors.IsInvalidToken(err))

	wrongIssuer := testConfig()
	wrongIssuer.Issuer = "wrong"
	other, _ := NewJWTUtil(wrongIssuer)
	tok, _, _, _ := other.GenerateAccessToken(testUser)
	_, err = util.ValidateAccessToken(tok)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestJWTUtil_RefreshIsNotAccess(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())

	rTok, exp, jti, err := util.GenerateRefreshToken(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, jti)
	require.True(t, exp.After(time.Now().Add(30*time.Minute)))

	cl, err := util.ValidateRefreshToken(rTok)
	require.NoError(t, err)
	require.Equal(t, "7", cl.Subject)

	_, err = util.ValidateAccessToken(rTok)
	require.Error(t, err)

	idTok, err := util.GenerateIDToken(testUser)
	require.NoError(t, err)
	_, err = util.ValidateAccessToken(idTok)
	require.Error(t, err, "id token must not pass as access token")
}

func TestJWTUtil_InvalidAlg(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	token, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "token_use": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err := util.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTUtil_InvalidAudience(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	otherCfg := testConfig()
	otherCfg.Audience = "other"
	other, _ := NewJWTUtil(otherCfg)

	tok, _, _, _ := other.GenerateAccessToken(testUser)
	_, err := util.ValidateAccessToken(tok)
	require.Error(t, err)
}

func TestJWTUtil_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Hour
	util, _ := NewJWTUtil(cfg)

	tok, _, _, err := util.GenerateAccessToken(testUser)
	require.NoError(t, err)
	_, err = util.ValidateAccessToken(tok)
	require.True(t, customErrors.IsInvalidToken(err))
}
