package routes

import (
	"strings"

	"github.com/vango-dev/routetree/internal/errors"
)

// Prepare validates a configuration recursively and assigns every route its
// identity key. Routes that already have a key keep it, so preparing the
// same configuration twice is harmless.
//
// The rules:
//   - redirectTo cannot be combined with children, loadChildren or component
//   - children and loadChildren cannot be combined
//   - one of component, redirectTo, children or loadChildren is required
//   - the path cannot start with "/"
//   - an empty path with a redirect must declare pathMatch
//   - pathMatch, when set, is "prefix" or "full"
func Prepare(config Routes) error {
	for _, r := range config {
		if err := validateRoute(r); err != nil {
			return err
		}
		r.assignKey()
		if r.Children != nil {
			if err := Prepare(r.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRoute(r *Route) error {
	if r == nil {
		return invalid("", "route cannot be nil")
	}
	switch {
	case r.IsRedirect() && r.Children != nil:
		return invalid(r.Path, "redirectTo and children cannot be used together")
	case r.IsRedirect() && r.LoadChildren != "":
		return invalid(r.Path, "redirectTo and loadChildren cannot be used together")
	case r.Children != nil && r.LoadChildren != "":
		return invalid(r.Path, "children and loadChildren cannot be used together")
	case r.IsRedirect() && r.Component != "":
		return invalid(r.Path, "redirectTo and component cannot be used together")
	case !r.IsRedirect() && r.Component == "" && r.Children == nil && r.LoadChildren == "":
		return invalid(r.Path, "component, redirectTo, children, loadChildren must be provided")
	case strings.HasPrefix(r.Path, "/"):
		return invalid(r.Path, "path cannot start with a slash")
	case r.Path == "" && r.IsRedirect() && r.PathMatch == "":
		return invalid(r.Path, "please provide 'pathMatch'").
			WithSuggestion("The default value of 'pathMatch' is 'prefix', but often the intent is to use 'full'.")
	case r.PathMatch != "" && r.PathMatch != PathMatchPrefix && r.PathMatch != PathMatchFull:
		return invalid(r.Path, "unknown pathMatch '"+string(r.PathMatch)+"'")
	}
	return nil
}

func invalid(path, detail string) *errors.RouteError {
	return errors.New("R102").WithSubject(path).WithDetail(detail)
}
