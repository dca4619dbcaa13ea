package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ManuelReschke/PixelFoxComments/app/repository"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/database"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/env"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/provision"
)

type seedOptions struct {
	user       provision.UserRequest
	imageUUID  string
	imageTitle string
}

// parseSeedFlags reads the seed subcommand arguments
func parseSeedFlags(args []string, out io.Writer) (seedOptions, error) {
	var opts seedOptions

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.user.Name, "name", "", "user name (3-150 characters)")
	fs.StringVar(&opts.user.Email, "email", "", "user email, the account key")
	fs.StringVar(&opts.user.Password, "password", "", "user password (min 6 characters)")
	fs.BoolVar(&opts.user.Admin, "admin", false, "grant the administrator role")
	fs.StringVar(&opts.imageUUID, "image-uuid", "", "register or look up the image with this UUID")
	fs.StringVar(&opts.imageTitle, "image-title", "", "register a new image with this title")

	if err := fs.Parse(args); err != nil {
		return seedOptions{}, err
	}
	if opts.user.Email == "" || opts.user.Password == "" {
		return seedOptions{}, errors.New("seed: -email and -password are required")
	}
	if opts.user.Name == "" {
		opts.user.Name = opts.user.Email
	}
	return opts, nil
}

// runSeed provisions a user with a fresh API key and optionally an image
func runSeed(args []string, out io.Writer) error {
	opts, err := parseSeedFlags(args, out)
	if err != nil {
		return err
	}

	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	return seed(provision.New(database.GetDB(), repository.GetGlobalRepositories()), opts, out)
}

func seed(p *provision.Provisioner, opts seedOptions, out io.Writer) error {
	user, err := p.EnsureUser(opts.user)
	if err != nil {
		return err
	}
	key, err := p.IssueAPIKey(user.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "user_id=%d role=%s api_key=%s\n", user.ID, user.Role, key)

	if opts.imageUUID == "" && opts.imageTitle == "" {
		return nil
	}
	img, err := p.EnsureImage(user.ID, opts.imageUUID, opts.imageTitle)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "image_id=%d image_uuid=%s\n", img.ID, img.UUID)
	return nil
}
