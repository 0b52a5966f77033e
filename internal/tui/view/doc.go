// Package view provides the rendering components of the WhyGO TUI.
//
// Every function here is pure: it takes a *styles.Styles and the data to
// show and returns a string. Input handling and state live in the parent
// tui package.
//
// # Components
//
//   - [RenderHeader] and [RenderHelp]: the frame shared by every screen
//   - [StepIndicator]: the wizard's 1 to 5 progress line
//   - [RenderProfile], [RenderCompanyGoals], [RenderDepartmentGoals],
//     [RenderComplete]: the read-only wizard steps
//   - [RenderSidebar]: the dashboard's goals context
//   - [RenderGoalCards] and [RenderLeadership]: the dashboard's main column
//
// # Basic Usage
//
//	s := styles.Default()
//	body := view.RenderProfile(s, oc, width)
//	help := view.RenderHelp(s, keymap.DefaultKeymap().Help(keymap.ModeWizard))
package view
