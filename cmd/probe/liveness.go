package probe

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/internal/config"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks the service liveness endpoint",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			runProbe("/-/healthy", verbose)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Prints the probe response body")
	return cmd
}

// runProbe hits a management endpoint of the locally running service and
// exits non-zero on any failure, matching what orchestration expects from
// an exec probe.
func runProbe(path string, verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	client := &http.Client{Timeout: 5 * time.Second}
	url := fmt.Sprintf("http://localhost%s%s", cfg.Echo.ListenAddress, path)

	res, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if verbose {
		fmt.Println(string(body))
	}

	if res.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "probe failed: status %d\n", res.StatusCode)
		os.Exit(1)
	}
}
