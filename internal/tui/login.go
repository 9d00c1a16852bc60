package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the most bcrypt will hash
const MaxPasswordBytes = 72

var formValidator = validator.New()

// ValidateLogin checks the login form before anything is sent
func ValidateLogin(email, password string) map[string]string {
	errs := map[string]string{}
	validateEmail(errs, email)
	if password == "" {
		errs["password"] = "Password is required"
	} else if len(password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

// ValidateRegister checks the register form before anything is sent
func ValidateRegister(name, email, password, confirm string) map[string]string {
	errs := map[string]string{}

	name = strings.TrimSpace(name)
	if name == "" {
		errs["name"] = "Name is required"
	} else if len([]rune(name)) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}

	validateEmail(errs, email)

	switch {
	case password == "":
		errs["password"] = "Password is required"
	case len(password) < 6:
		errs["password"] = "Password must be at least 6 characters"
	case len(password) > MaxPasswordBytes:
		errs["password"] = "Password must be at most 72 characters"
	case formValidator.Var(password, "containsany=abcdefghijklmnopqrstuvwxyz") != nil:
		errs["password"] = "Password must contain at least one lowercase letter"
	case formValidator.Var(password, "containsany=0123456789") != nil:
		errs["password"] = "Password must contain at least one number"
	}

	if confirm == "" {
		errs["confirm"] = "Please confirm your password"
	} else if confirm != password {
		errs["confirm"] = "Passwords do not match"
	}
	return errs
}

func validateEmail(errs map[string]string, email string) {
	err := formValidator.Var(strings.TrimSpace(email), "required,email")
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && fieldErrs[0].Tag() == "required" {
		errs["email"] = "Email is required"
		return
	}
	errs["email"] = "Please enter a valid email address"
}

// loginField indexes loginModel.inputs
type loginField int

const (
	loginName loginField = iota
	loginEmail
	loginPassword
	loginConfirm
)

var loginKeys = map[loginField]string{
	loginName:     "name",
	loginEmail:    "email",
	loginPassword: "password",
	loginConfirm:  "confirm",
}

var loginLabels = map[loginField]string{
	loginName:     "Name",
	loginEmail:    "Email",
	loginPassword: "Password",
	loginConfirm:  "Confirm password",
}

// loginModel is the login and register form
type loginModel struct {
	register bool
	inputs   [4]textinput.Model
	focus    int // index into fields()
	errs     map[string]string
	message  string
	busy     bool
}

func newLoginModel(register bool) loginModel {
	l := loginModel{register: register, errs: map[string]string{}}
	l.inputs[loginName] = newTextInput("Your name", 100)
	l.inputs[loginEmail] = newTextInput("you@example.com", 200)
	l.inputs[loginPassword] = newTextInput("At least 6 characters", 200)
	l.inputs[loginConfirm] = newTextInput("Repeat the password", 200)
	for _, f := range []loginField{loginPassword, loginConfirm} {
		l.inputs[f].EchoMode = textinput.EchoPassword
		l.inputs[f].EchoCharacter = '•'
	}
	l.refocus()
	return l
}

// fields lists the visible inputs for the current mode
func (l loginModel) fields() []loginField {
	if l.register {
		return []loginField{loginName, loginEmail, loginPassword, loginConfirm}
	}
	return []loginField{loginEmail, loginPassword}
}

func (l *loginModel) refocus() {
	fields := l.fields()
	if l.focus >= len(fields) {
		l.focus = len(fields) - 1
	}
	for i := range l.inputs {
		l.inputs[i].Blur()
	}
	l.inputs[fields[l.focus]].Focus()
}

func (l loginModel) value(f loginField) string {
	return l.inputs[f].Value()
}

func (l loginModel) validate() map[string]string {
	if l.register {
		return ValidateRegister(l.value(loginName), l.value(loginEmail), l.value(loginPassword), l.value(loginConfirm))
	}
	return ValidateLogin(l.value(loginEmail), l.value(loginPassword))
}

// update handles a key in the form. A submit returns the command that signs
// in through auth
func (l loginModel) update(msg tea.KeyMsg, auth Auth) (loginModel, tea.Cmd) {
	if l.busy {
		return l, nil
	}

	fields := l.fields()
	switch msg.String() {
	case "ctrl+t":
		l.register = !l.register
		l.focus = 0
		l.errs = map[string]string{}
		l.message = ""
		l.refocus()
		return l, nil

	case "tab", "down":
		l.focus = (l.focus + 1) % len(fields)
		l.refocus()
		return l, nil

	case "shift+tab", "up":
		l.focus = (l.focus - 1 + len(fields)) % len(fields)
		l.refocus()
		return l, nil

	case "enter":
		if l.focus < len(fields)-1 {
			l.focus++
			l.refocus()
			return l, nil
		}
		return l.submit(auth)
	}

	var cmd tea.Cmd
	current := fields[l.focus]
	l.inputs[current], cmd = l.inputs[current].Update(msg)
	delete(l.errs, loginKeys[current])
	return l, cmd
}

func (l loginModel) submit(auth Auth) (loginModel, tea.Cmd) {
	l.message = ""
	l.errs = l.validate()
	if len(l.errs) > 0 {
		return l, nil
	}

	l.busy = true
	email := strings.TrimSpace(l.value(loginEmail))
	password := l.value(loginPassword)
	name := strings.TrimSpace(l.value(loginName))
	register := l.register

	return l, func() tea.Msg {
		ctx := context.Background()
		if register {
			return authResultMsg{err: auth.Register(ctx, email, password, name)}
		}
		return authResultMsg{err: auth.Login(ctx, email, password)}
	}
}

func (l loginModel) title() string {
	if l.register {
		return "Create your worktime account"
	}
	return "Welcome back to worktime"
}

// view renders the form under a shimmering title
func (l loginModel) view(width int, sh *shimmer) string {
	var b strings.Builder

	b.WriteString(sh.render(l.title()))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	for i, f := range l.fields() {
		label := labelStyle.Render(loginLabels[f])
		if i == l.focus {
			label = focusStyle.Render("▶ " + loginLabels[f])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(l.inputs[f].View())
		b.WriteString("\n")
		if msg, ok := l.errs[loginKeys[f]]; ok {
			b.WriteString(errStyle.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case l.busy:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("Signing in..."))
	case l.message != "":
		b.WriteString(errStyle.Render(l.message))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 3).
		Width(min(width-4, 60))
	return card.Render(strings.TrimRight(b.String(), "\n"))
}
