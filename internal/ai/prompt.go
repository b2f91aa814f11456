package ai

import "fmt"

// BuildCodePrompt assembles the system and user messages requesting a plot
// script for one (signal, goal) pair. The system message pins down the
// directive language, the comparative-vs-single branch, styling ownership,
// label rules, and the mandatory one-line subtitle.
func BuildCodePrompt(signalName, goal string) (string, string) {
	system := fmt.Sprintf(`You are a measurement data engineer and visualization expert.
Write only a runnable plot script (no placeholders, no prose) in the plotloom
directive language: one statement per line, each either an assignment
(name = value) or a call (name(arg, key=value, ...)). Available calls:
histplot(...), lineplot(), subtitle("..."), title("..."), xlabel("..."),
ylabel("..."), figsize(w, h).

1. Detect whether the goal is comparative: it is when the word 'comparative'
   appears in the goal text.

2. If comparative, build a comparative histogram across every input file:
   each file contributes one layer labeled by its file name, weighted by the
   per-sample time delta (duration), with the first sample's duration 0.
   figsize(12, 7)
   histplot(x="%[1]s", hue="Vehicle", weights="duration", palette="colorblind", alpha=1.0)

   Otherwise (single series): drop missing samples and plot a plain histogram
   with Freedman-Diaconis binning capped between 10 and 60 bins.
   figsize(10, 6)
   histplot(x="%[1]s", bins=auto, alpha=1.0)

3. Grid, tick locators and fonts are applied by the host scaffold; do not
   attempt to restyle them.

4. Axis labels: X is the signal name plus its unit in brackets (detect from
   the name, e.g. "V" for voltage signals, "km/h" for speed).
   Y is "Total Duration [s]" if comparative, else "Frequency".

5. title("Comparative Histogram of %[1]s") if comparative,
   else title("Histogram of %[1]s").

6. Always finish with an auto-generated concise one-line subtitle describing
   the chart, e.g.
   subtitle("Distribution of battery voltage levels")
   or
   subtitle("Total duration per voltage bin across vehicles")

User request: **%[2]s** on signal **%[1]s**.`, signalName, goal)

	user := "Please generate the complete plot script block to achieve this."
	return system, user
}
