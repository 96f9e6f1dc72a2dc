// Package cloudauth acquires short-lived credentials for temporary
// databases hosted on managed PostgreSQL services.
//
// CI pipelines that cannot run a local server point tmpdb at RDS, Azure
// Database, or Cloud SQL instead; password authentication is usually
// disabled there, so the password is replaced with an IAM token fetched
// just before connecting. Selection happens through the auth= query
// parameter on the source URL.
package cloudauth

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
)

// Methods accepted in the auth= query parameter.
const (
	MethodAWSIAM = "aws-iam"
	MethodAzure  = "azure"
	MethodGoogle = "gcp"
)

// azurePostgresScope is the OAuth scope for Azure Database for PostgreSQL.
const azurePostgresScope = "https://ossrdbms-aad.database.windows.net/.default"

// TokenProvider fetches a credential usable as the connection password.
// Tokens are short-lived, so one is fetched per connection attempt rather
// than cached.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// awsProvider builds RDS IAM auth tokens from the default credential chain.
type awsProvider struct {
	endpoint string // host:port
	region   string
	username string
}

// NewAWSTokenProvider creates a provider for AWS RDS IAM authentication.
func NewAWSTokenProvider(endpoint, region, username string) (TokenProvider, error) {
	if endpoint == "" || region == "" || username == "" {
		return nil, fmt.Errorf("aws-iam auth requires endpoint, region, and username")
	}
	return &awsProvider{endpoint: endpoint, region: region, username: username}, nil
}

func (p *awsProvider) Token(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.region))
	if err != nil {
		return "", fmt.Errorf("load AWS config: %w", err)
	}
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("build RDS auth token: %w", err)
	}
	return token, nil
}

// azureCredProvider acquires Entra ID tokens. With explicit service
// principal credentials it uses those; otherwise the
// DefaultAzureCredential chain (env vars, workload identity, managed
// identity, CLI) applies.
type azureCredProvider struct {
	credential azcore.TokenCredential
}

func (p *azureCredProvider) Token(ctx context.Context) (string, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{azurePostgresScope},
	})
	if err != nil {
		return "", fmt.Errorf("acquire Azure token: %w", err)
	}
	return token.Token, nil
}

// NewAzureTokenProvider creates a provider for Azure Entra ID auth.
func NewAzureTokenProvider(tenantID, clientID, clientSecret string) (TokenProvider, error) {
	if tenantID != "" && clientID != "" && clientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure service principal credential: %w", err)
		}
		return &azureCredProvider{credential: cred}, nil
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure default credential: %w", err)
	}
	return &azureCredProvider{credential: cred}, nil
}

// NewCloudSQLDialer creates a dial function that tunnels to a Cloud SQL
// instance ("project:region:instance") with IAM authentication. The
// returned cleanup releases the dialer once all connections are done.
func NewCloudSQLDialer(ctx context.Context, instance string) (func(ctx context.Context, network, addr string) (net.Conn, error), func() error, error) {
	if instance == "" {
		return nil, nil, fmt.Errorf("gcp auth requires an instance connection name (project:region:instance)")
	}
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, nil, fmt.Errorf("create Cloud SQL dialer: %w", err)
	}
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	}
	return dial, dialer.Close, nil
}
