// Package cognito implements token.Service on an AWS Cognito user pool.
package cognito

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/token"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/config"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/log"
)

const defaultTimeout = 10 * time.Second

type Options struct {
	UserPoolID   string
	ClientID     string
	ClientSecret string
	Region       string
	Timeout      time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		UserPoolID:   cfg.CognitoUserPoolID,
		ClientID:     cfg.CognitoClientID,
		ClientSecret: cfg.CognitoClientSecret,
		Region:       cfg.CognitoRegion,
		Timeout:      cfg.ProviderTimeout,
	}
}

type provider struct {
	api      identityProvider
	verifier verifier
	opts     Options
	logger   *zap.Logger
}

// New builds the provider from the default AWS credential chain. The JWKS
// refresh goroutine lives as long as ctx.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (token.Service, error) {
	opts := OptionsFromConfig(cfg)

	api, err := newClient(ctx, opts.Region)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "load aws config")
	}
	keyFunc, err := NewJWKSKeyfunc(ctx, opts.Region, opts.UserPoolID)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "load cognito jwks")
	}
	return newProvider(api, keyFunc, opts, logger), nil
}

func newProvider(api identityProvider, keyFunc jwt.Keyfunc, opts Options, logger *zap.Logger) *provider {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &provider{
		api: api,
		verifier: verifier{
			keyFunc:  keyFunc,
			issuer:   Issuer(opts.Region, opts.UserPoolID),
			clientID: opts.ClientID,
		},
		opts:   opts,
		logger: logger,
	}
}

// Register creates the account with the password already permanent. When the
// second step fails the half-created account is deleted again.
func (p *provider) Register(ctx context.Context, username, email, password string, attrs map[string]string) result.Result[bool] {
	callCtx, cancel := p.callCtx(ctx)
	_, err := p.api.AdminCreateUser(callCtx, &cip.AdminCreateUserInput{
		UserPoolId:        aws.String(p.opts.UserPoolID),
		Username:          aws.String(username),
		TemporaryPassword: aws.String(password),
		MessageAction:     types.MessageActionTypeSuppress,
		UserAttributes:    userAttributes(email, attrs),
	})
	cancel()
	if err != nil {
		return result.Fail[bool](customErrors.WrapProvider(err, "AdminCreateUser"))
	}

	callCtx, cancel = p.callCtx(ctx)
	_, err = p.api.AdminSetUserPassword(callCtx, &cip.AdminSetUserPasswordInput{
		UserPoolId: aws.String(p.opts.UserPoolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  true,
	})
	cancel()
	if err == nil {
		return result.Ok(true)
	}

	setErr := customErrors.WrapProvider(err, "AdminSetUserPassword")

	// the request may already be cancelled; compensation must still run
	callCtx, cancel = p.callCtx(context.WithoutCancel(ctx))
	defer cancel()
	_, delErr := p.api.AdminDeleteUser(callCtx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(p.opts.UserPoolID),
		Username:   aws.String(username),
	})
	if delErr != nil {
		p.logger.Error("register compensation failed, account left behind",
			log.Email(email), zap.Error(delErr))
		return result.Fail[bool](errors.Join(setErr, fmt.Errorf("compensating AdminDeleteUser: %w", delErr)))
	}
	return result.Fail[bool](setErr)
}

func (p *provider) Verify(_ context.Context, raw string) result.Result[model.TokenPayload] {
	return result.From(p.verifier.verify(raw))
}

func (p *provider) Login(ctx context.Context, email, password string) result.Result[model.CredentialPair] {
	params := map[string]string{
		"USERNAME": email,
		"PASSWORD": password,
	}
	p.addSecretHash(params, email)

	out, err := p.initiateAuth(ctx, types.AuthFlowTypeUserPasswordAuth, params)
	if err != nil {
		return result.Fail[model.CredentialPair](err)
	}
	return result.From(credentials(out, ""))
}

// Logout keeps no provider state. Revocation is the auth service's job.
func (p *provider) Logout(_ context.Context, email string) result.Result[bool] {
	p.logger.Debug("cognito logout", log.Email(email))
	return result.Ok(true)
}

// Refresh trades a refresh token for new id and access tokens. Cognito does
// not rotate the refresh token, so the incoming one is returned as is.
func (p *provider) Refresh(ctx context.Context, username, refreshToken string) result.Result[model.CredentialPair] {
	if refreshToken == "" {
		return result.Fail[model.CredentialPair](customErrors.ErrNoToken)
	}
	params := map[string]string{"REFRESH_TOKEN": refreshToken}
	p.addSecretHash(params, username)

	out, err := p.initiateAuth(ctx, types.AuthFlowTypeRefreshTokenAuth, params)
	if err != nil {
		return result.Fail[model.CredentialPair](err)
	}
	return result.From(credentials(out, refreshToken))
}

func (p *provider) initiateAuth(ctx context.Context, flow types.AuthFlowType, params map[string]string) (*cip.InitiateAuthOutput, error) {
	callCtx, cancel := p.callCtx(ctx)
	defer cancel()

	out, err := p.api.InitiateAuth(callCtx, &cip.InitiateAuthInput{
		AuthFlow:       flow,
		ClientId:       aws.String(p.opts.ClientID),
		AuthParameters: params,
	})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		var notFound *types.UserNotFoundException
		if errors.As(err, &notAuthorized) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", customErrors.ErrInvalidCredentials, err)
		}
		return nil, customErrors.WrapProvider(err, "InitiateAuth")
	}

	switch out.ChallengeName {
	case "":
	case types.ChallengeNameTypeNewPasswordRequired:
		return nil, customErrors.ErrNewPasswordRequired
	default:
		return nil, customErrors.WrapProvider(fmt.Errorf("unsupported challenge %s", out.ChallengeName), "InitiateAuth")
	}
	if out.AuthenticationResult == nil {
		return nil, customErrors.WrapProvider(errors.New("no authentication result"), "InitiateAuth")
	}
	return out, nil
}

func (p *provider) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.opts.Timeout)
}

func (p *provider) addSecretHash(params map[string]string, username string) {
	if p.opts.ClientSecret != "" {
		params["SECRET_HASH"] = secretHash(p.opts.ClientSecret, username, p.opts.ClientID)
	}
}

func credentials(out *cip.InitiateAuthOutput, fallbackRefresh string) (model.CredentialPair, error) {
	res := out.AuthenticationResult
	pair := model.CredentialPair{
		IDToken:      aws.ToString(res.IdToken),
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    time.Duration(res.ExpiresIn) * time.Second,
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = fallbackRefresh
	}
	if pair.AccessToken == "" {
		return model.CredentialPair{}, customErrors.WrapProvider(errors.New("no access token issued"), "InitiateAuth")
	}
	return pair, nil
}

func userAttributes(email string, attrs map[string]string) []types.AttributeType {
	out := []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(email)},
		{Name: aws.String("email_verified"), Value: aws.String("true")},
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if k == "email" || k == "email_verified" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, types.AttributeType{Name: aws.String(k), Value: aws.String(attrs[k])})
	}
	return out
}
