// Package wizard provides the interactive setup behind clusterform init.
//
// It uses charmbracelet/huh forms to collect a stack name, the target
// provider, role isolation and colocation, instance counts and provider
// settings. RunWizard returns a WizardResult; BuildConfig turns it into a
// config.Config and WriteConfig writes clusterform.yaml with a header.
package wizard
