package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	// Standard Azurite account name and key
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// isLocal reports whether the service URL points at Azurite (plain http).
func isLocal(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

// newClient builds a storage client for serviceURL: shared-key against
// Azurite, DefaultAzureCredential everywhere else.
func newClient[T any](
	kind, serviceURL string,
	withSharedKey func(account, key string) (T, error),
	withToken func(cred azcore.TokenCredential) (T, error),
) (T, error) {
	var zero T
	if serviceURL == "" {
		return zero, fmt.Errorf("%s service URL is required", kind)
	}

	slog.Info("initializing storage client", "kind", kind, "url", serviceURL)
	if isLocal(serviceURL) {
		slog.Info("using Azurite shared key credentials", "kind", kind)
		client, err := withSharedKey(azuriteAccountName, azuriteAccountKey)
		if err != nil {
			return zero, fmt.Errorf("failed to create %s client with shared key: %w", kind, err)
		}
		return client, nil
	}

	cred, err := newDefaultAzureCredential()
	if err != nil {
		return zero, fmt.Errorf("failed to create default azure credential: %w", err)
	}
	client, err := withToken(cred)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s client: %w", kind, err)
	}
	return client, nil
}

// newDefaultAzureCredential creates a new DefaultAzureCredential.
func newDefaultAzureCredential() (azcore.TokenCredential, error) {
	slog.Info("using default Azure credentials")
	return azidentity.NewDefaultAzureCredential(nil)
}

// hasErrorCode reports whether err is an Azure response error with one of
// the given codes.
func hasErrorCode(err error, codes ...string) bool {
	var azErr *azcore.ResponseError
	if !errors.As(err, &azErr) {
		return false
	}
	for _, code := range codes {
		if azErr.ErrorCode == code {
			return true
		}
	}
	return false
}
