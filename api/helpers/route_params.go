package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// GetIntParam fetches a parameter from the route variables as an integer
// and writes bad request state if it is not a positive number
func GetIntParam(name string, w http.ResponseWriter, r *http.Request) (int, error) {
	intParam, err := strconv.Atoi(mux.Vars(r)[name])

	if err == nil && intParam <= 0 {
		err = fmt.Errorf("parameter %s must be positive", name)
	}

	if err != nil {
		WriteErrorStatus(w, fmt.Sprintf("invalid %s", name), http.StatusBadRequest)
		return 0, err
	}

	return intParam, nil
}
