package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/platform/aws"
	"github.com/imamik/clusterform/internal/platform/hcloud"
	"github.com/imamik/clusterform/internal/platform/s3"
	"github.com/imamik/clusterform/internal/template"
	"github.com/imamik/clusterform/internal/util/async"
)

// ImageCatalog resolves the OS image of every region.
type ImageCatalog interface {
	Images(ctx context.Context, channel, version string) (map[string]map[string]string, error)
}

// Provider factories - can be replaced in tests.
var (
	// newAWSClient creates the EC2 discovery client.
	newAWSClient = aws.NewClient

	// newHCloudClient creates the Hetzner Cloud discovery client.
	newHCloudClient = hcloud.NewClient

	// newImageCatalog creates the Flatcar image catalog.
	newImageCatalog = func() ImageCatalog {
		return aws.NewImageCatalog()
	}

	// newS3Client creates the client behind s3:// fragment locations.
	newS3Client = func(ctx context.Context, opts s3.Options) (s3.ObjectGetter, error) {
		return s3.NewClient(ctx, opts)
	}
)

var errMissingToken = errors.New("HCLOUD_TOKEN environment variable is required")

// environment is the provider-specific half of a run.
type environment struct {
	Target template.Target
	Oracle bootstrap.PlacementOracle
}

func buildEnvironment(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts, log logr.Logger) (*environment, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Discovery)
	defer cancel()

	switch cfg.Provider {
	case config.ProviderAWS:
		return awsEnvironment(ctx, cfg, timeouts, log)
	case config.ProviderHCloud:
		return hcloudEnvironment(ctx, cfg, timeouts, log)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func awsEnvironment(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts, log logr.Logger) (*environment, error) {
	client, err := newAWSClient(ctx, aws.Options{Profile: cfg.AWS.Profile, Region: cfg.AWS.Region},
		aws.WithTimeouts(timeouts), aws.WithLogger(log))
	if err != nil {
		return nil, &bootstrap.DiscoveryError{Op: "client", Err: err}
	}

	// The network lookup and the image catalog are independent.
	var (
		bastion *template.Bastion
		network template.Network
		images  map[string]map[string]string
	)
	discoverNetwork := func(ctx context.Context) error {
		vpcID := cfg.AWS.VPCID
		if cfg.AWS.BastionID != "" {
			b, err := client.DiscoverBastion(ctx, cfg.AWS.BastionID)
			if err != nil {
				return &bootstrap.DiscoveryError{Op: "bastion", Err: err}
			}
			bastion, vpcID = b, b.VPCID
		}
		n, err := client.DiscoverNetwork(ctx, vpcID, aws.NetworkOverrides{
			Zones:          cfg.AWS.Zones,
			Subnets:        cfg.AWS.Subnets,
			PrivateSubnets: cfg.AWS.PrivateSubnets,
		})
		if err != nil {
			return &bootstrap.DiscoveryError{Op: "network", Err: err}
		}
		network = n
		return nil
	}
	fetchImages := func(ctx context.Context) error {
		imgs, err := newImageCatalog().Images(ctx, cfg.AWS.Channel, cfg.AWS.Version)
		if err != nil {
			return &bootstrap.DiscoveryError{Op: "images", Err: err}
		}
		images = imgs
		return nil
	}
	if err := async.Run(ctx,
		async.Task{Name: "vpc", Func: discoverNetwork},
		async.Task{Name: "image catalog", Func: fetchImages},
	); err != nil {
		return nil, err
	}

	log.V(1).Info("discovered network", "region", client.Region(), "vpc", network.VPCID, "zones", network.Zones)

	target := template.NewCloudFormation(template.CloudFormationOptions{
		Network:                      network,
		Bastion:                      bastion,
		Images:                       images,
		DisableTerminationProtection: cfg.AWS.DisableTerminationProtection,
	})
	return &environment{Target: target, Oracle: aws.NewOracle(client, network.Zones)}, nil
}

func hcloudEnvironment(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts, log logr.Logger) (*environment, error) {
	token := strings.TrimSpace(os.Getenv("HCLOUD_TOKEN"))
	if token == "" {
		return nil, errMissingToken
	}

	client := newHCloudClient(token, hcloud.WithTimeouts(timeouts), hcloud.WithLogger(log))
	serverTypes, err := client.ServerTypes(ctx)
	if err != nil {
		return nil, &bootstrap.DiscoveryError{Op: "server types", Err: err}
	}
	log.V(1).Info("discovered server types", "count", len(serverTypes))

	target := template.NewTerraform(template.TerraformOptions{
		Network:                 cfg.HCloud.Network,
		Location:                cfg.HCloud.Location,
		Image:                   cfg.HCloud.Image,
		ServerTypes:             serverTypes,
		DisableDeleteProtection: cfg.HCloud.DisableDeleteProtection,
	})
	return &environment{Target: target, Oracle: hcloud.NewOracle(client, cfg.HCloud.Location)}, nil
}

// buildFragmentStore opens the built-in fragments of the provider, a local
// directory or an s3:// location.
func buildFragmentStore(ctx context.Context, cfg *config.Config) (template.FragmentStore, error) {
	switch {
	case cfg.Fragments == "":
		return template.NewEmbeddedStore(cfg.Provider)
	case s3.IsLocation(cfg.Fragments):
		loc, err := s3.ParseLocation(cfg.Fragments)
		if err != nil {
			return nil, err
		}
		client, err := newS3Client(ctx, s3.Options{Profile: cfg.AWS.Profile, Region: cfg.AWS.Region})
		if err != nil {
			return nil, err
		}
		return s3.NewFragmentStore(client, loc), nil
	default:
		return template.NewDirStore(cfg.Fragments), nil
	}
}
