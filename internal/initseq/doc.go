// Package initseq implements the permission-gated initialization sequence
// that runs every time the Fleet console is mounted.
//
// A Sequencer checks permissions through an api.PermissionOracle and, only
// when access is granted, calls an api.SetupService exactly once. The two
// calls never overlap. Every outcome is folded into state: Start does not
// return errors and recovers panics raised by either collaborator.
//
// Permission failures are terminal for the mount. Setup failures are not:
// the sequence still reaches Ready and carries the setup error alongside.
//
//	seq := initseq.New(client, client)
//	snap := seq.Start(ctx)
//	switch snap.State.Phase { ... }
//
// Calling Start again (a remount) resets everything first. Results that
// arrive for an attempt that has since been restarted or unmounted are
// dropped without touching state.
package initseq
