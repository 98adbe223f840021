package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
)

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Manage the local meeting registry",
}

var meetingsRegisterCmd = &cobra.Command{
	Use:     "register",
	Short:   "Register a Zoom meeting for an organisation",
	Example: `  meeting-insights meetings register --org 7a0c5a3e-2f7e-4b61-9d0a-3b1f0c9e8d11 --meeting-id 85746065432`,
	RunE:    runMeetingsRegister,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token signed with JWT_ACCESS_SECRET",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(meetingsCmd)
	meetingsCmd.AddCommand(meetingsRegisterCmd)
	rootCmd.AddCommand(tokenCmd)

	meetingsRegisterCmd.Flags().String("org", "", "organisation id (uuid)")
	meetingsRegisterCmd.Flags().String("meeting-id", "", "Zoom meeting id")
	meetingsRegisterCmd.Flags().String("title", "", "meeting title")
	_ = meetingsRegisterCmd.MarkFlagRequired("org")
	_ = meetingsRegisterCmd.MarkFlagRequired("meeting-id")

	tokenCmd.Flags().String("org", "", "organisation id (uuid)")
	tokenCmd.Flags().String("user", "", "user id (uuid); random when empty")
	tokenCmd.Flags().String("email", "", "email claim")
	_ = tokenCmd.MarkFlagRequired("org")
}

func runMeetingsRegister(cmd *cobra.Command, args []string) error {
	orgFlag, _ := cmd.Flags().GetString("org")
	meetingID, _ := cmd.Flags().GetString("meeting-id")
	title, _ := cmd.Flags().GetString("title")

	orgID, err := uuid.Parse(orgFlag)
	if err != nil {
		return fmt.Errorf("invalid --org: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	meeting := &entities.Meeting{
		OrganisationID:    orgID,
		ExternalMeetingID: meetingID,
		Title:             title,
	}
	if err := repository.NewMeetingRepository(db).Create(cmd.Context(), meeting); err != nil {
		return fmt.Errorf("failed to register meeting: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), meeting.ID)
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	orgFlag, _ := cmd.Flags().GetString("org")
	userFlag, _ := cmd.Flags().GetString("user")
	email, _ := cmd.Flags().GetString("email")

	orgID, err := uuid.Parse(orgFlag)
	if err != nil {
		return fmt.Errorf("invalid --org: %w", err)
	}
	userID := uuid.New()
	if userFlag != "" {
		if userID, err = uuid.Parse(userFlag); err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := jwt.NewManager(cfg.JWT).GenerateAccessToken(userID, orgID, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
