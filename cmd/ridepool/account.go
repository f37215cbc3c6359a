package main

import (
	"context"
	"fmt"
	"strings"

	"ridepool/internal/models"
	"ridepool/internal/services"
)

func (a *app) profileService() *services.ProfileService {
	return services.NewProfileService(a.client, a.session, a.logger)
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	phone := fs.String("phone", "", "phone number in E.164 format")
	mode := fs.String("mode", string(models.ModeRider), "rider or driver")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(map[string]string{"name": *name, "email": *email, "password": *password}); err != nil {
		return err
	}

	user, err := a.profileService().Register(ctx, &models.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Phone:    *phone,
		Mode:     models.UserMode(*mode),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s. You are signed in as a %s.\n", user.Name, user.Mode)
	return nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(map[string]string{"email": *email, "password": *password}); err != nil {
		return err
	}

	user, err := a.profileService().Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s).\n", user.Name, user.Mode)
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	if err := a.profileService().Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func runProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("profile")
	var update models.UpdateProfile
	fs.Func("name", "new display name", func(v string) error { update.Name = &v; return nil })
	fs.Func("phone", "new phone number", func(v string) error { update.Phone = &v; return nil })
	fs.Func("bio", "new bio", func(v string) error { update.Bio = &v; return nil })
	fs.Func("push-token", "device token for notifications", func(v string) error { update.PushToken = &v; return nil })
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	profiles := a.profileService()
	var user *models.User
	var err error
	if update.Name == nil && update.Phone == nil && update.Bio == nil && update.PushToken == nil {
		user, err = profiles.Profile(ctx)
	} else {
		user, err = profiles.Update(ctx, &update)
	}
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func runMode(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	mode := models.UserMode(strings.ToLower(args[0]))

	user, err := a.profileService().SwitchMode(ctx, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "You are now in %s mode.\n", user.Mode)
	return nil
}

func runPhoto(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	user, err := a.profileService().UploadPhoto(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Photo updated: %s\n", user.PhotoURL)
	return nil
}

func printUser(a *app, user *models.User) {
	w := newTable(a.out)
	fmt.Fprintf(w, "ID\t%s\n", user.ID.Hex())
	fmt.Fprintf(w, "Name\t%s\n", user.Name)
	fmt.Fprintf(w, "Email\t%s\n", user.Email)
	if user.Phone != "" {
		fmt.Fprintf(w, "Phone\t%s\n", user.Phone)
	}
	if user.Bio != "" {
		fmt.Fprintf(w, "Bio\t%s\n", user.Bio)
	}
	if user.PhotoURL != "" {
		fmt.Fprintf(w, "Photo\t%s\n", user.PhotoURL)
	}
	fmt.Fprintf(w, "Mode\t%s\n", user.Mode)
	fmt.Fprintf(w, "Rating\t%.1f\n", user.Rating)
	w.Flush()
}
