package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness endpoint used by load balancers and monitoring
// systems. It deliberately touches no dependency: a healthy process
// answers even when MySQL or Redis are down, so orchestrators restart
// only for the right reason.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
