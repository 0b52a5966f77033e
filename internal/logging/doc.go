// Package logging provides structured JSON logging for the whygo client.
//
// Logs go to {state_dir}/whygo.log, never to the terminal, because the
// Bubble Tea program owns the screen. The file is rotated by size through
// [RotatingWriter].
//
// # Usage
//
//	logger, err := logging.NewLogger(stateDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logger.WithPerson(sess.PersonID).WithStep("/onboarding/profile")
//	log.Warn("mark started failed", "error", err)
//
// Child loggers created with the With* methods share the root's file.
//
// # Reading Logs
//
// [ReadLogs] and [FilterLogs] back the `whygo logs` command:
//
//	entries, err := logging.ReadLogs(path)
//	warnings := logging.FilterLogs(entries, logging.LogFilter{Level: "WARN"})
package logging
