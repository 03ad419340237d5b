package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/h2g2bob/ippserver/internal/job"
)

// jobEnviron builds the IPP_JOB_* environment variables a run/saveandrun
// sink injects into its child process when --env is set: one
// IPP_JOB_ATTRIBUTES entry holding the job's collected job-template
// attributes (j.Attributes: media, copies, print-quality,
// print-color-mode and the like) as JSON, plus one IPP_JOB_<KEY>=<value>
// per such attribute, and IPP_JOB_ID/IPP_JOB_NAME. Attributes of the
// request's job-attributes group outside that set are not exported.
func jobEnviron(j *job.Job) []string {
	env := append([]string(nil), os.Environ()...)

	if blob, err := json.Marshal(j.Attributes); err == nil {
		env = append(env, "IPP_JOB_ATTRIBUTES="+string(blob))
	}
	for key, value := range j.Attributes {
		envKey := "IPP_JOB_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		env = append(env, fmt.Sprintf("%s=%s", envKey, value))
	}
	env = append(env, fmt.Sprintf("IPP_JOB_ID=%d", j.ID), "IPP_JOB_NAME="+j.Name)
	return env
}
