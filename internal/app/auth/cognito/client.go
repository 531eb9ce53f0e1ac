package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/golang-jwt/jwt/v5"
)

// identityProvider is the part of the Cognito API the provider calls.
// *cognitoidentityprovider.Client satisfies it.
type identityProvider interface {
	AdminCreateUser(ctx context.Context, in *cip.AdminCreateUserInput, optFns ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, in *cip.AdminSetUserPasswordInput, optFns ...func(*cip.Options)) (*cip.AdminSetUserPasswordOutput, error)
	AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newClientFromConfig = func(cfg aws.Config, optFns ...func(*cip.Options)) identityProvider {
		return cip.NewFromConfig(cfg, optFns...)
	}
)

func newClient(ctx context.Context, region string) (identityProvider, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return newClientFromConfig(cfg), nil
}

// Issuer is the iss claim of every token the pool signs.
func Issuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

func JWKSURL(region, userPoolID string) string {
	return Issuer(region, userPoolID) + "/.well-known/jwks.json"
}

// NewJWKSKeyfunc fetches the pool signing keys and keeps them refreshed in
// the background until ctx is done.
func NewJWKSKeyfunc(ctx context.Context, region, userPoolID string) (jwt.Keyfunc, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{JWKSURL(region, userPoolID)})
	if err != nil {
		return nil, err
	}
	return k.Keyfunc, nil
}

// secretHash is base64(HMAC-SHA256(clientSecret, username+clientID)).
func secretHash(clientSecret, username, clientID string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
