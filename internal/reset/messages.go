package reset

import (
	"strings"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

var (
	banner       = strings.Repeat("=", 50)
	bannerTitle  = appinfo.TargetName + " " + appinfo.AppName
	bannerIntro  = "This tool resets the machine IDs " + appinfo.TargetName + " reports."
	bannerFollow = "Follow the steps below:"
)

var logoutLines = []string{
	"",
	"Step 1: Sign out of " + appinfo.TargetName,
	"1. Open " + appinfo.TargetName,
	"2. Click the account icon in the lower-left corner",
	"3. Choose 'Sign Out'",
	"4. Confirm the sign-out",
	"",
	"Note:",
	"- Sign out completely, do not just close the window",
	"- Your local settings are kept",
}

var loginLines = []string{
	"",
	"Step 4: Register and sign in to " + appinfo.TargetName + " again",
	"1. Visit the " + appinfo.TargetName + " website (https://cursor.sh)",
	"2. Click the avatar in the top-right corner and choose 'Sign Out'",
	"3. Click 'Sign Up' to register a new account",
	"4. Choose a sign-up method:",
	"   - Google account (recommended)",
	"   - GitHub account",
	"5. Open the " + appinfo.TargetName + " client once registered",
	"6. Click the account icon in the lower-left corner",
	"7. Choose 'Sign In'",
	"8. Sign in with the new account",
}

const (
	msgStepExit            = "Step 2: Quit " + appinfo.TargetName
	msgCheckingProcess     = "Checking for " + appinfo.TargetName + " processes..."
	msgProcessFound        = "Found a running " + appinfo.TargetName + " process, trying to close it..."
	msgSaveWork            = "Save your work within %d seconds..."
	msgTerminateFailed     = "Error while terminating the process: %v"
	msgStillRunning        = appinfo.TargetName + " is still running, please close it manually"
	msgStepReset           = "Step 3: Reset machine IDs"
	msgCheckingSettings    = "Checking settings file %s..."
	msgSettingsUnavailable = "Cannot use the settings file: %v"
	msgGenerating          = "Generating new machine IDs..."
	msgSettingsFailed      = "Settings file update failed: %v"
	msgBackupSaved         = "Backup saved to %s"
	msgDatabaseFailed      = "SQLite database update failed: %v"
	msgResetDone           = "Machine IDs reset successfully!"
	msgNewIDs              = "New machine IDs:"
	msgResetFailed         = "Reset failed, check the errors above and try again."
)

const (
	promptLogout = "Press Enter when you have completed the steps above..."
	promptExit   = "Make sure " + appinfo.TargetName + " is fully closed, then press Enter to continue..."
	promptReset  = "Press Enter to back up the settings and write new machine IDs..."
	promptLogin  = "Press Enter to exit when you have completed the steps above..."
)
