package commands

import (
	"context"
	"fmt"
)

type PasswordCmd struct {
	Forgot PasswordForgotCmd `cmd:"" help:"Request a password-reset code"`
	Verify PasswordVerifyCmd `cmd:"" help:"Verify the emailed one-time code"`
	Reset  PasswordResetCmd  `cmd:"" help:"Set a new password using the verified code"`
}

type PasswordForgotCmd struct {
	Email string `arg:"" help:"Account email address"`
}

func (p *PasswordForgotCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	resp, err := c.session.ForgotPassword(ctx, p.Email)
	if err != nil {
		return err
	}

	if resp.Message != "" {
		fmt.Println(resp.Message)
	}

	return nil
}

type PasswordVerifyCmd struct {
	Email string `arg:"" help:"Account email address"`
	OTP   string `arg:"" help:"One-time code from the email"`
}

func (p *PasswordVerifyCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	resp, err := c.session.VerifyOTP(ctx, p.Email, p.OTP)
	if err != nil {
		return err
	}

	if resp.Message != "" {
		fmt.Println(resp.Message)
	}

	return nil
}

type PasswordResetCmd struct {
	Email       string `arg:"" help:"Account email address"`
	OTP         string `arg:"" help:"Verified one-time code"`
	NewPassword string `help:"New password" required:""`
}

func (p *PasswordResetCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	resp, err := c.session.ResetPassword(ctx, p.Email, p.OTP, p.NewPassword)
	if err != nil {
		return err
	}

	if resp.Message != "" {
		fmt.Println(resp.Message)
	}

	return nil
}
