// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/pkg/registry"

	aj "jobportal-workers/internal/workers/application/apply-job"
	sp "jobportal-workers/internal/workers/profile/submit-profile"
	vps "jobportal-workers/internal/workers/profile/validate-profile-step"
)

const workflow = "job-application"

func main() {
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	syncPath := syncCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	version := syncCmd.String("version", "1.0.0", "Version stamped on synced activities")

	updatePath := updateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		_ = syncCmd.Parse(os.Args[2:])
		n, err := syncRegistry(*syncPath, *version)
		if err != nil {
			fmt.Printf("Error syncing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Synced %d activities into %s\n", n, *syncPath)

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	default:
		help()
	}
}

// syncRegistry writes the activities served by the worker manager into the
// registry at path, replacing entries with the same ID.
func syncRegistry(path, version string) (int, error) {
	reg, err := registry.LoadOrNew(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}

	type source struct {
		activity registry.Activity
		input    interface{}
		output   interface{}
	}
	sources := []source{
		{
			activity: registry.Activity{
				ID:          "apply-job",
				DisplayName: "Apply For Job",
				Description: "Applies for a job once; throws PROFILE_INCOMPLETE when the server asks for a complete profile",
				Category:    "application",
				TaskType:    aj.TaskType,
				ErrorCodes: []string{
					string(errors.ErrCodeProfileIncomplete),
					string(errors.ErrCodeServerValidationFailed),
					string(errors.ErrCodeSessionExpired),
					string(errors.ErrCodeServerFault),
				},
				Timeout: aj.DefaultConfig().Timeout.String(),
				Retries: errors.GetRetryCount(errors.ErrCodeServerFault),
				Tags:    []string{"api"},
			},
			input:  aj.GetInputSchema(),
			output: aj.GetOutputSchema(),
		},
		{
			activity: registry.Activity{
				ID:          "validate-profile-step",
				DisplayName: "Validate Profile Step",
				Description: "Validates the mandatory fields of one profile wizard step",
				Category:    "profile",
				TaskType:    vps.TaskType,
				ErrorCodes:  []string{string(errors.ErrCodeInvalidJobInput)},
				Timeout:     vps.DefaultConfig().Timeout.String(),
				Tags:        []string{"validation"},
			},
			input:  vps.GetInputSchema(),
			output: vps.GetOutputSchema(),
		},
		{
			activity: registry.Activity{
				ID:          "submit-profile",
				DisplayName: "Submit Profile",
				Description: "Revalidates the whole profile and submits it as a multipart form",
				Category:    "profile",
				TaskType:    sp.TaskType,
				ErrorCodes: []string{
					string(errors.ErrCodeFieldValidationFailed),
					string(errors.ErrCodePayloadSchemaFailed),
					string(errors.ErrCodeServerValidationFailed),
					string(errors.ErrCodeServerFault),
				},
				Timeout: sp.DefaultConfig().Timeout.String(),
				Retries: errors.GetRetryCount(errors.ErrCodeServerFault),
				Tags:    []string{"api", "multipart"},
			},
			input:  sp.GetInputSchema(),
			output: sp.GetOutputSchema(),
		},
	}

	now := time.Now()
	for _, src := range sources {
		a := src.activity
		if a.InputSchema, err = registry.SchemaMap(src.input); err != nil {
			return 0, err
		}
		if a.OutputSchema, err = registry.SchemaMap(src.output); err != nil {
			return 0, err
		}
		a.Version = version
		a.ImplementationStatus = "completed"
		a.Workflows = []string{workflow}
		reg.Upsert(a, now)
	}

	if err := reg.Validate(); err != nil {
		return 0, err
	}
	return len(sources), registry.Save(reg, path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(*activity, time.Now())
	return registry.Save(reg, path)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  sync     Write the worker manager's activities into the registry
  update   Update an existing activity's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater sync -path configs/activity-registry.json
  registry-updater update -id submit-profile -field status -value verified
  registry-updater validate -path configs/activity-registry.json`)
}
